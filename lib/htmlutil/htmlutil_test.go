package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<a href="/concert/blackpink.html">  BLACKPINK
	WORLD TOUR </a>
<a href="https://other.example.com/x">Coldplay <b>Live</b></a>
<a href="/concert/blackpink-2.html">blackpink encore</a>
<span>not a link</span>
</body></html>`

func TestCleanText(t *testing.T) {
	require.Equal(t, "a b c", CleanText("  a\n\t b   c "))
	require.Equal(t, "ที่นั่งว่าง / Seats Available", CleanText("ที่นั่งว่าง  / Seats Available"))
	require.Equal(t, "", CleanText(" \x00 "))
	require.Equal(t, "Seats Available", CleanText("\u00a0Seats\u00a0\u00a0Available\u3000"))
}

func TestAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	base, err := url.Parse("https://www.thaiticketmajor.com/concert/")
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"), base)
	require.Equal(t, []Anchor{
		{Name: "BLACKPINK WORLD TOUR", Href: "https://www.thaiticketmajor.com/concert/blackpink.html"},
		{Name: "Coldplay Live", Href: "https://other.example.com/x"},
		{Name: "blackpink encore", Href: "https://www.thaiticketmajor.com/concert/blackpink-2.html"},
	}, anchors)

	matched := AnchorsContaining(context.Background(), doc, "BlackPink", nil)
	require.Len(t, matched, 2)
	require.Equal(t, "/concert/blackpink.html", matched[0].Href)
}
