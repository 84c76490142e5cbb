package handler

import "ticketbooker/internal/sites"

// selectors every variant needs on top of the login selectors, optional
// ones (search box, round dropdown, quantity input) are left out.
var requiredSelectors = map[string][]string{
	sites.ThaiTicketMajor: {
		"show_list", "show_selector", "zone_map", "seat_table",
		"confirm_button", "continue_button",
		"back_link", "availability_link", "availability_table",
	},
	sites.TicketMelon: {"show_selector", "zone_selector", "seat_selector", "confirm_button"},
	sites.Eventpop:    {"show_selector", "zone_selector", "seat_selector", "confirm_button"},
}

// Supported returns true if a handler exists for the site.
func Supported(siteID string) bool {
	_, ok := requiredSelectors[siteID]
	return ok
}

// MissingSelectors lists the booking selectors the site's handler needs but
// the site does not configure.
func MissingSelectors(site sites.Site) []string {
	var missing []string
	for _, key := range requiredSelectors[site.ID] {
		if _, ok := site.Selector(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// HasZoneFallback returns true if the site's handler implements
// ZoneFallback.
func HasZoneFallback(siteID string) bool {
	return siteID == sites.ThaiTicketMajor
}
