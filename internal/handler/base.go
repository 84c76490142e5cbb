package handler

import (
	"context"
	"errors"
	"strings"

	"ticketbooker/internal/browser"
	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/intent"
	"ticketbooker/internal/sites"
	"ticketbooker/lib/textutil"
)

const (
	report_setup          = "handler.setup"
	report_login          = "handler.login"
	report_search_concert = "handler.search-concert"
	report_select_show    = "handler.select-show"
	report_select_zone    = "handler.select-zone"
	report_select_seats   = "handler.select-seats"
	report_confirm        = "handler.confirm-booking"
	report_alt_zones      = "handler.find-alternative-zones"
	report_selector       = "handler.selector"
)

// base holds what every site variant shares, the variants embed it and
// override the steps their markup needs.
type base struct {
	site    sites.Site
	session browser.Session
	user    intent.UserIntent
	opts    Options
	tel     telemetry.API

	seatsSelected int
}

func (b *base) SeatsSelected() int {
	return b.seatsSelected
}

func (b *base) Setup(ctx context.Context) error {
	b.tel.ReportDebug("opening site", "url", b.site.BaseURL)
	err := b.session.Navigate(ctx, b.site.BaseURL)
	if err != nil {
		b.tel.ReportBroken(report_setup, err)
		return err
	}
	return nil
}

// selector returns the configured selector for key, a missing key is
// reported against the step that needed it.
func (b *base) selector(report, key string) (browser.Selector, bool) {
	sel, ok := b.site.Selector(key)
	if !ok {
		b.tel.ReportWarning(report_selector, "step", report, "key", key)
	}
	return sel, ok
}

func (b *base) find(ctx context.Context, report string, sel browser.Selector) (browser.Element, bool) {
	el, err := browser.Find(ctx, b.session, sel, b.opts.ElementTimeout, b.opts.PollInterval)
	if err != nil {
		b.reportLookup(report, sel, err)
		return nil, false
	}
	return el, true
}

// findQuiet is find for elements that are allowed to be absent.
func (b *base) findQuiet(ctx context.Context, sel browser.Selector) (browser.Element, bool) {
	el, err := browser.Find(ctx, b.session, sel, b.opts.ElementTimeout, b.opts.PollInterval)
	if err != nil {
		b.tel.ReportDebug("optional element absent", "selector", sel.String())
		return nil, false
	}
	return el, true
}

func (b *base) findAll(ctx context.Context, report string, sel browser.Selector) []browser.Element {
	elements, err := browser.FindAll(ctx, b.session, sel, b.opts.ElementTimeout, b.opts.PollInterval)
	if err != nil {
		b.reportLookup(report, sel, err)
		return nil
	}
	return elements
}

func (b *base) reportLookup(report string, sel browser.Selector, err error) {
	if errors.Is(err, browser.ErrNotFound) {
		b.tel.ReportWarning(report, "element not found", "selector", sel.String())
		return
	}
	b.tel.ReportBroken(report, err, "selector", sel.String())
}

func (b *base) click(ctx context.Context, report string, sel browser.Selector) bool {
	el, ok := b.find(ctx, report, sel)
	if !ok {
		return false
	}
	err := el.Click(ctx)
	if err != nil {
		b.tel.ReportWarning(report, "click failed", "selector", sel.String(), "err", err)
		return false
	}
	return true
}

func (b *base) clickKey(ctx context.Context, report, key string) bool {
	sel, ok := b.selector(report, key)
	if !ok {
		return false
	}
	return b.click(ctx, report, sel)
}

func (b *base) typeInto(ctx context.Context, report, key, text string) {
	sel, ok := b.selector(report, key)
	if !ok {
		return
	}
	el, ok := b.find(ctx, report, sel)
	if !ok {
		return
	}
	err := el.SendKeys(ctx, text)
	if err != nil {
		b.tel.ReportWarning(report, "type failed", "key", key, "err", err)
	}
}

func (b *base) currentURL(ctx context.Context, report string) string {
	url, err := b.session.CurrentURL(ctx)
	if err != nil {
		b.tel.ReportBroken(report, err)
	}
	return url
}

// clickUntilNavigated keeps clicking what find returns until the url moves away from where
// it was, giving up after the navigation timeout.
func (b *base) clickUntilNavigated(ctx context.Context, report string, find func(ctx context.Context) (browser.Element, error)) bool {
	start := b.currentURL(ctx, report)
	err := browser.Poll(ctx, b.opts.NavigationTimeout, b.opts.PollInterval, func(ctx context.Context) (bool, error) {
		current, err := b.session.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		if current != start {
			return true, nil
		}
		el, err := find(ctx)
		if err != nil {
			return false, err
		}
		if el == nil {
			return false, nil
		}
		err = el.Click(ctx)
		if err != nil {
			b.tel.ReportDebug("click did not go through, retrying", "err", err)
			return false, nil
		}
		current, err = b.session.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return current != start, nil
	})
	if err != nil {
		b.tel.ReportWarning(report, "page did not navigate", "err", err)
		return false
	}
	return true
}

// Login fills in the credentials using whatever selector kinds the site
// declares for its fields.
func (b *base) Login(ctx context.Context) {
	b.clickKey(ctx, report_login, "login_button")
	b.typeInto(ctx, report_login, "username_field", b.user.Email)
	b.typeInto(ctx, report_login, "password_field", b.user.Password)
	b.clickKey(ctx, report_login, "submit_button")
	b.tel.ReportDebug("submitted login", "email", b.user.Email)
}

func (b *base) concertLink() browser.Selector {
	return browser.PartialLinkText(b.user.Concert)
}

// selectShowFromList clicks the show-th element of show_selector.
func (b *base) selectShowFromList(ctx context.Context) {
	sel, ok := b.selector(report_select_show, "show_selector")
	if !ok {
		return
	}
	shows := b.findAll(ctx, report_select_show, sel)
	if b.user.Show < 1 || b.user.Show > len(shows) {
		b.tel.ReportDebug("show out of range", "show", b.user.Show, "available", len(shows))
		return
	}
	err := shows[b.user.Show-1].Click(ctx)
	if err != nil {
		b.tel.ReportWarning(report_select_show, "click failed", "err", err)
	}
}

func (b *base) zoneOrDefault(zone string) string {
	if zone == "" {
		return b.user.Zone
	}
	return zone
}

// selectZoneByText clicks the first zone_selector element whose text
// contains the zone name, ignoring case.
func (b *base) selectZoneByText(ctx context.Context, zone string) {
	zone = b.zoneOrDefault(zone)
	sel, ok := b.selector(report_select_zone, "zone_selector")
	if !ok {
		return
	}
	needle := strings.ToLower(zone)
	var seen []string
	for _, el := range b.findAll(ctx, report_select_zone, sel) {
		text, err := el.Text(ctx)
		if err != nil {
			b.tel.ReportDebug("could not read zone text", "err", err)
			continue
		}
		if strings.Contains(strings.ToLower(text), needle) {
			err = el.Click(ctx)
			if err != nil {
				b.tel.ReportWarning(report_select_zone, "click failed", "zone", zone, "err", err)
			}
			return
		}
		seen = append(seen, text)
	}
	b.reportNoZone(zone, seen)
}

// reportNoZone warns about a missing zone, naming the closest zone that was
// on the page since a typo in the intent is the usual cause.
func (b *base) reportNoZone(zone string, seen []string) {
	closest, _ := textutil.Closest(zone, seen)
	if closest == "" {
		b.tel.ReportWarning(report_select_zone, "zone not found", "zone", zone)
		return
	}
	b.tel.ReportWarning(report_select_zone, "zone not found", "zone", zone, "closest", closest)
}

// seatAvailable reports whether a class attribute marks a seat as free,
// "unavailable" and "not-available" do not count.
func seatAvailable(class string) bool {
	for _, token := range strings.Fields(strings.ToLower(class)) {
		if !strings.Contains(token, "available") {
			continue
		}
		if strings.Contains(token, "unavailable") || strings.Contains(token, "not-available") {
			continue
		}
		return true
	}
	return false
}

// selectSeatsByClass clicks seat_selector elements marked available until
// the requested count is reached.
func (b *base) selectSeatsByClass(ctx context.Context) bool {
	b.seatsSelected = 0
	sel, ok := b.selector(report_select_seats, "seat_selector")
	if !ok {
		return false
	}
	for _, seat := range b.findAll(ctx, report_select_seats, sel) {
		if b.seatsSelected >= b.user.Seats {
			break
		}
		class, _, err := seat.Attribute(ctx, "class")
		if err != nil {
			b.tel.ReportDebug("could not read seat class", "err", err)
			continue
		}
		if !seatAvailable(class) {
			continue
		}
		err = seat.Click(ctx)
		if err != nil {
			b.tel.ReportWarning(report_select_seats, "click failed", "err", err)
			continue
		}
		b.seatsSelected++
	}
	b.tel.ReportCount(report_select_seats, int64(b.seatsSelected))
	return b.seatsSelected > 0
}

// confirmWith clicks each key in order, the first one that cannot be
// clicked fails the confirmation.
func (b *base) confirmWith(ctx context.Context, keys ...string) bool {
	if b.seatsSelected == 0 {
		return false
	}
	for _, key := range keys {
		if !b.clickKey(ctx, report_confirm, key) {
			return false
		}
	}
	b.tel.ReportDebug("booking submitted", "seats", b.seatsSelected)
	return true
}
