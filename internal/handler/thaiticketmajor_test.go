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

func navigatesTo(url string) func(*browsertest.Session) {
	return func(s *browsertest.Session) {
		s.SetURL(url)
	}
}

func TestThaiTicketMajorSearchConcert(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	link := browsertest.NewElement("concert", "BLACKPINK WORLD TOUR")
	link.OnClick = navigatesTo("https://www.thaiticketmajor.com/concert/blackpink.html")
	f.session.Set(browser.PartialLinkText("BLACKPINK"), link)

	f.handler.SearchConcert(context.Background())

	requireClicked(t, f.session, "concert")
	require.Empty(t, f.tel.Reports(telemetry.LevelWarning))
}

func TestThaiTicketMajorSearchConcertRetriesUntilNavigated(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	link := browsertest.NewElement("concert", "BLACKPINK")
	link.OnClick = func(s *browsertest.Session) {
		if link.Clicks == 3 {
			s.SetURL("https://www.thaiticketmajor.com/concert/blackpink.html")
		}
	}
	f.session.Set(browser.PartialLinkText("BLACKPINK"), link)

	f.handler.SearchConcert(context.Background())

	require.Equal(t, 3, link.Clicks)
}

func TestThaiTicketMajorSearchConcertMissing(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)

	f.handler.SearchConcert(context.Background())

	requireClicked(t, f.session)
	require.True(t, f.tel.Has(telemetry.LevelWarning, report_search_concert))
}

func showList(f fixture, t *testing.T, count int) {
	shows := make([]*browsertest.Element, count)
	for i := range shows {
		shows[i] = browsertest.NewElement("listed", "")
	}
	f.session.Set(f.sel(t, "show_list"), shows...)
}

func TestThaiTicketMajorSelectShow(t *testing.T) {
	user := testUser
	user.Show = 2
	f := newFixture(t, sites.ThaiTicketMajor, user)
	showList(f, t, 3)
	f.session.Set(
		browser.XPath("//div[@class='box-event-list']/div[2]/div[2]/div[2]/span[1]/a[1]"),
		browsertest.NewElement("show-2", "Buy Now"),
	)

	f.handler.SelectShow(context.Background())

	requireClicked(t, f.session, "show-2")
	require.Empty(t, f.tel.Reports(telemetry.LevelWarning))
}

func TestThaiTicketMajorSelectShowOutOfRange(t *testing.T) {
	user := testUser
	user.Show = 4
	f := newFixture(t, sites.ThaiTicketMajor, user)
	showList(f, t, 3)
	f.session.Set(
		browser.XPath("//div[@class='box-event-list']/div[2]/div[4]/div[2]/span[1]/a[1]"),
		browsertest.NewElement("show-4", "Buy Now"),
	)

	f.handler.SelectShow(context.Background())

	requireClicked(t, f.session)
}

func TestThaiTicketMajorSelectRound(t *testing.T) {
	user := testUser
	user.Show = 2
	f := newFixture(t, sites.ThaiTicketMajor, user)
	showList(f, t, 2)
	f.session.Set(
		browser.XPath("//div[@class='box-event-list']/div[2]/div[2]/div[2]/span[1]/a[1]"),
		browsertest.NewElement("show-2", "Buy Now"),
	)
	f.session.Set(f.sel(t, "round_placeholder"), browsertest.NewElement("placeholder", "เลือกรอบการแสดง / Select round"))
	f.session.Set(browser.ID("rdId"), browsertest.NewElement("dropdown", ""))
	f.session.Set(browser.XPath("//*[@div='select-date fix-me']/option[3]"), browsertest.NewElement("round-2", "Sun 19:00"))

	f.handler.SelectShow(context.Background())

	requireClicked(t, f.session, "show-2", "dropdown", "round-2")
}

func TestThaiTicketMajorRoundAlreadyPicked(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	showList(f, t, 1)
	f.session.Set(
		browser.XPath("//div[@class='box-event-list']/div[2]/div[1]/div[2]/span[1]/a[1]"),
		browsertest.NewElement("show-1", "Buy Now"),
	)
	f.session.Set(f.sel(t, "round_placeholder"), browsertest.NewElement("placeholder", "Sat 19:00"))
	f.session.Set(browser.ID("rdId"), browsertest.NewElement("dropdown", ""))

	f.handler.SelectShow(context.Background())

	requireClicked(t, f.session, "show-1")
}

func zoneArea(zone string) *browsertest.Element {
	area := browsertest.NewElement("zone-"+zone, "", "href", "https://www.thaiticketmajor.com/booking/zone.php#"+zone)
	area.OnClick = navigatesTo("https://www.thaiticketmajor.com/booking/seats.php?zone=" + zone)
	return area
}

func TestThaiTicketMajorSelectZone(t *testing.T) {
	table := []struct {
		name     string
		zone     string
		expected []string
	}{
		{name: "intent zone", zone: "", expected: []string{"zone-A1"}},
		{name: "explicit zone", zone: "B", expected: []string{"zone-B"}},
		{name: "case insensitive", zone: "a1", expected: []string{"zone-A1"}},
		{name: "fragment only", zone: "A"},
		{name: "no match", zone: "C"},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			f := newFixture(t, sites.ThaiTicketMajor, testUser)
			f.session.Set(f.sel(t, "zone_map"), zoneArea("VIP"), zoneArea("A1"), zoneArea("B"))

			f.handler.SelectZone(context.Background(), row.zone)

			requireClicked(t, f.session, row.expected...)
			require.Equal(t, row.expected == nil, f.tel.Has(telemetry.LevelWarning, report_select_zone))
		})
	}
}

func TestHrefMatches(t *testing.T) {
	require.True(t, hrefMatches("https://x/zone.php#A1", "A1"))
	require.True(t, hrefMatches("https://x/zone.php#A1", "a1"))
	require.True(t, hrefMatches("#B#C", "C"))
	require.False(t, hrefMatches("https://x/zone.php#A1", "A"))
	require.False(t, hrefMatches("", "A"))
}

// seatTable lays out rows of cells, the first cell of each row is the row
// label and "" or " " is a taken seat.
func seatTable(f fixture, t *testing.T, rows ...[]string) {
	table := f.sel(t, "seat_table")
	rowElements := make([]*browsertest.Element, len(rows))
	for i, row := range rows {
		rowElements[i] = browsertest.NewElement("row", "")
		cells := make([]*browsertest.Element, len(row))
		for j, text := range row {
			name := text
			if j == 0 {
				name = "label-" + text
			}
			cells[j] = browsertest.NewElement(name, text, "title", name)
		}
		f.session.Set(table.Index(i+1, "td"), cells...)
	}
	f.session.Set(table, rowElements...)
}

func TestThaiTicketMajorSelectSeats(t *testing.T) {
	table := []struct {
		name     string
		seats    int
		expected []string
	}{
		{name: "stops mid row", seats: 1, expected: []string{"A2"}},
		{name: "spans rows", seats: 3, expected: []string{"A2", "A4", "B2"}},
		{name: "fewer than requested", seats: 10, expected: []string{"A2", "A4", "B2"}},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			user := testUser
			user.Seats = row.seats
			f := newFixture(t, sites.ThaiTicketMajor, user)
			seatTable(f, t,
				[]string{"A", " ", "A2", "", "A4"},
				[]string{"B", "B2", " "},
			)

			ok := f.handler.SelectSeats(context.Background())

			require.True(t, ok)
			require.Equal(t, len(row.expected), f.handler.SeatsSelected())
			requireClicked(t, f.session, row.expected...)
		})
	}
}

func TestThaiTicketMajorSelectSeatsNoneLeft(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	seatTable(f, t, []string{"A", " ", ""}, []string{"B", " "})

	require.False(t, f.handler.SelectSeats(context.Background()))
	require.Equal(t, 0, f.handler.SeatsSelected())
	requireClicked(t, f.session)
}

func TestThaiTicketMajorSelectSeatsResets(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	seatTable(f, t, []string{"A", "A2"})
	require.True(t, f.handler.SelectSeats(context.Background()))
	require.Equal(t, 1, f.handler.SeatsSelected())

	seatTable(f, t, []string{"A", " "})
	require.False(t, f.handler.SelectSeats(context.Background()))
	require.Equal(t, 0, f.handler.SeatsSelected())
}

func TestThaiTicketMajorConfirm(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	seatTable(f, t, []string{"A", "A2"})
	f.session.Set(f.sel(t, "confirm_button"), browsertest.NewElement("book-now", "ยืนยันที่นั่ง / Book Now"))
	f.session.Set(browser.PartialLinkText("Continue"), browsertest.NewElement("continue", "Continue"))

	require.True(t, f.handler.SelectSeats(context.Background()))
	require.True(t, f.handler.ConfirmBooking(context.Background()))
	requireClicked(t, f.session, "A2", "book-now", "continue")
}

func TestThaiTicketMajorConfirmStopsAtMissingStep(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	seatTable(f, t, []string{"A", "A2"})
	f.session.Set(f.sel(t, "confirm_button"), browsertest.NewElement("book-now", "Book Now"))

	require.True(t, f.handler.SelectSeats(context.Background()))
	require.False(t, f.handler.ConfirmBooking(context.Background()))
	requireClicked(t, f.session, "A2", "book-now")
	require.True(t, f.tel.Has(telemetry.LevelWarning, report_confirm))
}

func availabilityTable(f fixture, t *testing.T, zones ...[2]string) {
	table := f.sel(t, "availability_table")
	rows := []*browsertest.Element{browsertest.NewElement("header", "Zone Seats")}
	for i, zone := range zones {
		rows = append(rows, browsertest.NewElement("row", ""))
		f.session.Set(table.Index(i+2, "td[1]"), browsertest.NewElement("name", zone[0]))
		f.session.Set(table.Index(i+2, "td[2]"), browsertest.NewElement("left", zone[1]))
	}
	f.session.Set(table, rows...)
}

func TestFindAlternativeZones(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	f.session.Set(f.sel(t, "back_link"), browsertest.NewElement("back", "ย้อนกลับ / Back"))
	f.session.Set(f.sel(t, "availability_link"), browsertest.NewElement("availability", "ที่นั่งว่าง / Seats Available"))
	availabilityTable(f, t, [2]string{"A", "0"}, [2]string{"B", "5"})

	zoneA := zoneArea("A")
	zoneB := zoneArea("B")
	zoneB.OnClick = func(s *browsertest.Session) {
		s.SetURL("https://www.thaiticketmajor.com/booking/seats.php?zone=B")
		seatTable(f, t, []string{"B", "B1", "B2", "B3", "B4"})
	}
	f.session.Set(f.sel(t, "zone_map"), zoneA, zoneB)

	fallback, ok := f.handler.(ZoneFallback)
	require.True(t, ok)
	require.True(t, fallback.FindAlternativeZones(context.Background()))

	require.Equal(t, 0, zoneA.Clicks)
	require.Equal(t, 3, f.handler.SeatsSelected())
	requireClicked(t, f.session, "back", "availability", "zone-B", "B1", "B2", "B3")
}

func TestFindAlternativeZonesNoneLeft(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)
	f.session.Set(f.sel(t, "back_link"), browsertest.NewElement("back", "Back"))
	f.session.Set(f.sel(t, "availability_link"), browsertest.NewElement("availability", "Seats Available"))
	availabilityTable(f, t, [2]string{"A", "0"}, [2]string{"B", ""})
	f.session.Set(f.sel(t, "zone_map"), zoneArea("A"), zoneArea("B"))

	fallback := f.handler.(ZoneFallback)
	require.False(t, fallback.FindAlternativeZones(context.Background()))
	requireClicked(t, f.session, "back", "availability")
}

func TestFindAlternativeZonesWithoutBackLink(t *testing.T) {
	f := newFixture(t, sites.ThaiTicketMajor, testUser)

	fallback := f.handler.(ZoneFallback)
	require.False(t, fallback.FindAlternativeZones(context.Background()))
	require.True(t, f.tel.Has(telemetry.LevelWarning, report_alt_zones))
}
