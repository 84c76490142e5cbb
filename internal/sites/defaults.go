package sites

import "ticketbooker/internal/browser"

const (
	ThaiTicketMajor = "thaiticketmajor"
	TicketMelon     = "ticketmelon"
	Eventpop        = "eventpop"
)

func defaults() map[string]Site {
	return map[string]Site{
		ThaiTicketMajor: {
			BaseURL:     "https://www.thaiticketmajor.com/concert/",
			DisplayName: "Thai Ticket Major",
			LoginSelectors: map[string]string{
				"login_button":   "//*[@class='btn-signin item d-none d-lg-inline-block']",
				"username_field": "username",
				"password_field": "password",
				"submit_button":  "//button[@class='btn-red btn-signin']",
			},
			BookingSelectors: map[string]string{
				"show_list":          "//div[@class='box-event-list']/div[2]/div",
				"show_selector":      "//div[@class='box-event-list']/div[2]/div[{show}]/div[2]/span[1]/a[1]",
				"round_placeholder":  "//*[@id='rdId']/option[1]",
				"round_select":       "rdId",
				"round_option":       "//*[@div='select-date fix-me']/option[{option}]",
				"zone_map":           "//*[@name='uMap2Map']/area",
				"seat_table":         "//*[@id='tableseats']/tbody[1]/tr",
				"confirm_button":     "ยืนยันที่นั่ง / Book Now",
				"continue_button":    "Continue",
				"back_link":          "ย้อนกลับ / Back",
				"availability_link":  "ที่นั่งว่าง / Seats Available",
				"availability_table": "//*[@class='container-popup']/table[1]/tbody[1]/tr",
			},
			Kinds: map[string]browser.By{
				"username_field":    browser.ByID,
				"password_field":    browser.ByID,
				"round_select":      browser.ByID,
				"confirm_button":    browser.ByPartialLinkText,
				"continue_button":   browser.ByPartialLinkText,
				"back_link":         browser.ByPartialLinkText,
				"availability_link": browser.ByPartialLinkText,
			},
		},
		TicketMelon: {
			BaseURL:     "https://www.ticketmelon.com/",
			DisplayName: "Ticket Melon",
			LoginSelectors: map[string]string{
				"login_button":   "//a[contains(@class, 'login')]",
				"username_field": "email",
				"password_field": "password",
				"submit_button":  "//button[@type='submit']",
			},
			BookingSelectors: map[string]string{
				"search_box":     "search",
				"show_selector":  "//div[contains(@class, 'show-time')]",
				"zone_selector":  "//div[contains(@class, 'zone')]",
				"seat_selector":  "//div[contains(@class, 'seat')]",
				"confirm_button": "//button[contains(text(), 'Confirm')]",
			},
			Kinds: map[string]browser.By{
				"username_field": browser.ByName,
				"password_field": browser.ByName,
				"search_box":     browser.ByName,
			},
		},
		Eventpop: {
			BaseURL:     "https://www.eventpop.me/",
			DisplayName: "Eventpop",
			LoginSelectors: map[string]string{
				"login_button":   "//button[contains(text(), 'เข้าสู่ระบบ')]",
				"username_field": "email",
				"password_field": "password",
				"submit_button":  "//button[contains(@class, 'login-btn')]",
			},
			BookingSelectors: map[string]string{
				"search_box":     "q",
				"quantity_input": "quantity",
				"show_selector":  "//div[contains(@class, 'event-session')]",
				"zone_selector":  "//div[contains(@class, 'ticket-type')]",
				"seat_selector":  "//button[contains(@class, 'seat')]",
				"confirm_button": "//button[contains(text(), 'จองตั๋ว')]",
			},
			Kinds: map[string]browser.By{
				"username_field": browser.ByName,
				"password_field": browser.ByName,
				"search_box":     browser.ByName,
				"quantity_input": browser.ByName,
			},
		},
	}
}
