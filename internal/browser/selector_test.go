package browser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXPathQuery(t *testing.T) {
	table := []struct {
		sel      Selector
		expected string
	}{
		{sel: XPath("//div[@class='zone']"), expected: "//div[@class='zone']"},
		{sel: ID("username"), expected: `//*[@id="username"]`},
		{sel: Name("q"), expected: `//*[@name="q"]`},
		{sel: LinkText(" Continue "), expected: `//a[normalize-space(.)="Continue"]`},
		{sel: PartialLinkText("ย้อนกลับ / Back"), expected: `//a[contains(., "ย้อนกลับ / Back")]`},
		{sel: PartialLinkText(`say "hi"`), expected: `//a[contains(., 'say "hi"')]`},
		{sel: PartialLinkText(`it's "x"`), expected: `//a[contains(., concat("it's ", '"', "x", '"', ""))]`},
	}

	for _, row := range table {
		result, ok := row.sel.XPathQuery()
		require.True(t, ok)
		require.Equal(t, row.expected, result, row.sel.String())
	}

	_, ok := CSS("div.zone").XPathQuery()
	require.False(t, ok)
}

func TestSelectorIndex(t *testing.T) {
	rows := XPath("//*[@id='tableseats']/tbody[1]/tr")
	require.Equal(t, "//*[@id='tableseats']/tbody[1]/tr[3]/td", rows.Index(3, "td").Value)
	require.Equal(t, "//*[@id='tableseats']/tbody[1]/tr[3]", rows.Index(3, "").Value)
}

func TestByText(t *testing.T) {
	for _, by := range []By{ByXPath, ByID, ByName, ByLinkText, ByPartialLinkText, ByCSS} {
		text, err := by.MarshalText()
		require.NoError(t, err)

		var parsed By
		require.NoError(t, parsed.UnmarshalText(text))
		require.Equal(t, by, parsed)
	}

	var by By
	require.Error(t, by.UnmarshalText([]byte("class_name")))
}
