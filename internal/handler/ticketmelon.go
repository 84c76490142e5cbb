package handler

import "context"

// TicketMelon books on ticketmelon.com.
type TicketMelon struct {
	*base
}

// SearchConcert submits the site search when the box is there and
// otherwise clicks the concert's link directly.
func (h *TicketMelon) SearchConcert(ctx context.Context) {
	if sel, ok := h.site.Selector("search_box"); ok {
		if box, ok := h.findQuiet(ctx, sel); ok {
			err := box.SendKeys(ctx, h.user.Concert)
			if err == nil {
				err = box.Submit(ctx)
			}
			if err != nil {
				h.tel.ReportWarning(report_search_concert, "search failed", "err", err)
			}
			return
		}
	}
	h.click(ctx, report_search_concert, h.concertLink())
}

func (h *TicketMelon) SelectShow(ctx context.Context) {
	h.selectShowFromList(ctx)
}

func (h *TicketMelon) SelectZone(ctx context.Context, zone string) {
	h.selectZoneByText(ctx, zone)
}

func (h *TicketMelon) SelectSeats(ctx context.Context) bool {
	return h.selectSeatsByClass(ctx)
}

func (h *TicketMelon) ConfirmBooking(ctx context.Context) bool {
	return h.confirmWith(ctx, "confirm_button")
}
