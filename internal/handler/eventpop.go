package handler

import (
	"context"
	"strconv"
)

// Eventpop books on eventpop.me. Most events sell by ticket type and
// quantity rather than by seat.
type Eventpop struct {
	*base
}

func (h *Eventpop) SearchConcert(ctx context.Context) {
	if sel, ok := h.site.Selector("search_box"); ok {
		if box, ok := h.findQuiet(ctx, sel); ok {
			err := box.SendKeys(ctx, h.user.Concert)
			if err == nil {
				err = box.Submit(ctx)
			}
			if err != nil {
				h.tel.ReportWarning(report_search_concert, "search failed", "err", err)
				return
			}
		}
	}
	h.click(ctx, report_search_concert, h.concertLink())
}

func (h *Eventpop) SelectShow(ctx context.Context) {
	h.selectShowFromList(ctx)
}

func (h *Eventpop) SelectZone(ctx context.Context, zone string) {
	h.selectZoneByText(ctx, zone)
}

// SelectSeats fills in the quantity when the event has one, counting all
// requested seats as selected, and falls back to picking seats otherwise.
func (h *Eventpop) SelectSeats(ctx context.Context) bool {
	h.seatsSelected = 0
	sel, ok := h.site.Selector("quantity_input")
	if !ok {
		return h.selectSeatsByClass(ctx)
	}
	input, ok := h.findQuiet(ctx, sel)
	if !ok {
		return h.selectSeatsByClass(ctx)
	}

	err := input.Clear(ctx)
	if err == nil {
		err = input.SendKeys(ctx, strconv.Itoa(h.user.Seats))
	}
	if err != nil {
		h.tel.ReportWarning(report_select_seats, "could not set quantity", "err", err)
		return false
	}
	h.seatsSelected = h.user.Seats
	h.tel.ReportCount(report_select_seats, int64(h.seatsSelected))
	return true
}

func (h *Eventpop) ConfirmBooking(ctx context.Context) bool {
	return h.confirmWith(ctx, "confirm_button")
}
