package handler

import (
	"context"
	"testing"

	"ticketbooker/internal/browser"
	"ticketbooker/internal/browser/browsertest"
	"ticketbooker/internal/components/telemetry"
	"ticketbooker/internal/sites"

	"github.com/stretchr/testify/require"
)

func TestTicketMelonSearchBox(t *testing.T) {
	f := newFixture(t, sites.TicketMelon, testUser)
	box := browsertest.NewElement("search", "")
	f.session.Set(browser.Name("search"), box)
	f.session.Set(browser.PartialLinkText("BLACKPINK"), browsertest.NewElement("concert", "BLACKPINK"))

	f.handler.SearchConcert(context.Background())

	require.Equal(t, "BLACKPINK", box.Typed)
	require.True(t, box.Submitted)
	requireClicked(t, f.session)
}

func TestTicketMelonSearchLinkFallback(t *testing.T) {
	f := newFixture(t, sites.TicketMelon, testUser)
	f.session.Set(browser.PartialLinkText("BLACKPINK"), browsertest.NewElement("concert", "BLACKPINK"))

	f.handler.SearchConcert(context.Background())

	requireClicked(t, f.session, "concert")
	require.Empty(t, f.tel.Reports(telemetry.LevelWarning))
}

func TestEventpopSearchThenClick(t *testing.T) {
	f := newFixture(t, sites.Eventpop, testUser)
	box := browsertest.NewElement("q", "")
	f.session.Set(browser.Name("q"), box)
	f.session.Set(browser.PartialLinkText("BLACKPINK"), browsertest.NewElement("concert", "BLACKPINK"))

	f.handler.SearchConcert(context.Background())

	require.Equal(t, "BLACKPINK", box.Typed)
	require.True(t, box.Submitted)
	requireClicked(t, f.session, "concert")
}

func TestSearchConcertNotFound(t *testing.T) {
	for _, id := range []string{sites.TicketMelon, sites.Eventpop} {
		t.Run(id, func(t *testing.T) {
			f := newFixture(t, id, testUser)

			f.handler.SearchConcert(context.Background())

			requireClicked(t, f.session)
			require.True(t, f.tel.Has(telemetry.LevelWarning, report_search_concert))
		})
	}
}

func TestEventpopQuantity(t *testing.T) {
	f := newFixture(t, sites.Eventpop, testUser)
	quantity := browsertest.NewElement("quantity", "")
	quantity.Typed = "1"
	f.session.Set(browser.Name("quantity"), quantity)
	f.session.Set(f.sel(t, "seat_selector"), seatElements("available")...)

	ok := f.handler.SelectSeats(context.Background())

	require.True(t, ok)
	require.Equal(t, "3", quantity.Typed)
	require.Equal(t, 3, f.handler.SeatsSelected())
	requireClicked(t, f.session)
	require.Contains(t, f.session.Calls(), "clear quantity")
}

func TestEventpopConfirmAfterQuantity(t *testing.T) {
	f := newFixture(t, sites.Eventpop, testUser)
	f.session.Set(browser.Name("quantity"), browsertest.NewElement("quantity", ""))
	f.session.Set(f.sel(t, "confirm_button"), browsertest.NewElement("book", "จองตั๋ว"))

	require.True(t, f.handler.SelectSeats(context.Background()))
	require.True(t, f.handler.ConfirmBooking(context.Background()))
	requireClicked(t, f.session, "book")
}
