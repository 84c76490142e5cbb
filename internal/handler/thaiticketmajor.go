package handler

import (
	"context"
	"strconv"
	"strings"

	"ticketbooker/internal/browser"
)

// roundPlaceholder is the first option of the round dropdown while no round
// is picked.
const roundPlaceholder = "เลือกรอบการแสดง"

// ThaiTicketMajor books on thaiticketmajor.com. Zones are <area> elements of
// an image map and seats are cells of a table.
type ThaiTicketMajor struct {
	*base
}

func (h *ThaiTicketMajor) SearchConcert(ctx context.Context) {
	link := h.concertLink()
	ok := h.clickUntilNavigated(ctx, report_search_concert, func(ctx context.Context) (browser.Element, error) {
		elements, err := h.session.FindAll(ctx, link)
		if err != nil || len(elements) == 0 {
			return nil, err
		}
		return elements[0], nil
	})
	if !ok {
		h.tel.ReportWarning(report_search_concert, "concert not found", "concert", h.user.Concert)
	}
}

func (h *ThaiTicketMajor) SelectShow(ctx context.Context) {
	list, ok := h.selector(report_select_show, "show_list")
	if !ok {
		return
	}
	shows := h.findAll(ctx, report_select_show, list)
	if h.user.Show < 1 || h.user.Show > len(shows) {
		h.tel.ReportDebug("show out of range", "show", h.user.Show, "available", len(shows))
		return
	}

	target, ok := h.selector(report_select_show, "show_selector")
	if !ok {
		return
	}
	target.Value = strings.ReplaceAll(target.Value, "{show}", strconv.Itoa(h.user.Show))
	h.click(ctx, report_select_show, target)

	h.selectRound(ctx)
}

// selectRound picks the round from the dropdown some events show after a
// show is clicked. The dropdown's first option is the placeholder, so the
// round for show n is option n+1.
func (h *ThaiTicketMajor) selectRound(ctx context.Context) {
	placeholder, ok := h.site.Selector("round_placeholder")
	if !ok {
		return
	}
	el, ok := h.findQuiet(ctx, placeholder)
	if !ok {
		return
	}
	text, err := el.Text(ctx)
	if err != nil || !strings.Contains(text, roundPlaceholder) {
		return
	}

	h.clickKey(ctx, report_select_show, "round_select")
	option, ok := h.selector(report_select_show, "round_option")
	if !ok {
		return
	}
	option.Value = strings.ReplaceAll(option.Value, "{option}", strconv.Itoa(h.user.Show+1))
	h.click(ctx, report_select_show, option)
}

// hrefMatches compares the zone against every '#' separated part of an
// area's href.
func hrefMatches(href, zone string) bool {
	for _, fragment := range strings.Split(href, "#") {
		if strings.EqualFold(fragment, zone) {
			return true
		}
	}
	return false
}

func (h *ThaiTicketMajor) SelectZone(ctx context.Context, zone string) {
	zone = h.zoneOrDefault(zone)
	sel, ok := h.selector(report_select_zone, "zone_map")
	if !ok {
		return
	}

	var seen []string
	for _, area := range h.findAll(ctx, report_select_zone, sel) {
		href, ok, err := area.Attribute(ctx, "href")
		if err != nil || !ok {
			continue
		}
		if !hrefMatches(href, zone) {
			parts := strings.Split(href, "#")
			seen = append(seen, parts[len(parts)-1])
			continue
		}
		h.clickUntilNavigated(ctx, report_select_zone, func(context.Context) (browser.Element, error) {
			return area, nil
		})
		return
	}
	h.reportNoZone(zone, seen)
}

// SelectSeats walks the seat table row by row. The first cell of each row
// is the row label and a blank cell is a taken seat.
func (h *ThaiTicketMajor) SelectSeats(ctx context.Context) bool {
	h.seatsSelected = 0
	table, ok := h.selector(report_select_seats, "seat_table")
	if !ok {
		return false
	}

	rows := h.findAll(ctx, report_select_seats, table)
	for i := 1; i <= len(rows) && h.seatsSelected < h.user.Seats; i++ {
		cells, err := h.session.FindAll(ctx, table.Index(i, "td"))
		if err != nil {
			h.tel.ReportBroken(report_select_seats, err, "row", i)
			continue
		}
		for j := 2; j <= len(cells) && h.seatsSelected < h.user.Seats; j++ {
			cell := cells[j-1]
			text, err := cell.Text(ctx)
			if err != nil {
				continue
			}
			title, _, _ := cell.Attribute(ctx, "title")
			if strings.TrimSpace(text) == "" {
				h.tel.ReportDebug("seat not available", "seat", title)
				continue
			}
			err = cell.Click(ctx)
			if err != nil {
				h.tel.ReportWarning(report_select_seats, "click failed", "seat", title, "err", err)
				continue
			}
			h.seatsSelected++
			h.tel.ReportDebug("selected seat", "seat", title)
		}
	}
	h.tel.ReportCount(report_select_seats, int64(h.seatsSelected))
	return h.seatsSelected > 0
}

func (h *ThaiTicketMajor) ConfirmBooking(ctx context.Context) bool {
	return h.confirmWith(ctx, "confirm_button", "continue_button")
}

// FindAlternativeZones goes back to the zone map, opens the availability
// popup and tries every zone that still has seats, in the order listed.
func (h *ThaiTicketMajor) FindAlternativeZones(ctx context.Context) bool {
	if !h.clickKey(ctx, report_alt_zones, "back_link") {
		return false
	}
	if !h.clickKey(ctx, report_alt_zones, "availability_link") {
		return false
	}
	table, ok := h.selector(report_alt_zones, "availability_table")
	if !ok {
		return false
	}

	rows := h.findAll(ctx, report_alt_zones, table)
	// row 1 is the header
	for i := 2; i <= len(rows); i++ {
		name, ok := h.cellText(ctx, table.Index(i, "td[1]"))
		if !ok {
			continue
		}
		left, ok := h.cellText(ctx, table.Index(i, "td[2]"))
		if !ok || left == "" || left == "0" {
			continue
		}
		h.tel.ReportDebug("trying alternative zone", "zone", name, "left", left)
		h.SelectZone(ctx, name)
		if h.SelectSeats(ctx) {
			return true
		}
	}
	return false
}

func (h *ThaiTicketMajor) cellText(ctx context.Context, sel browser.Selector) (string, bool) {
	elements, err := h.session.FindAll(ctx, sel)
	if err != nil || len(elements) == 0 {
		return "", false
	}
	text, err := elements[0].Text(ctx)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}
