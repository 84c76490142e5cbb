package browser

import (
	"fmt"
	"strings"
)

// By is the strategy used to interpret a selector value.
type By int

const (
	ByXPath By = iota
	ByID
	ByName
	ByLinkText
	ByPartialLinkText
	ByCSS
)

var byNames = map[By]string{
	ByXPath:           "xpath",
	ByID:              "id",
	ByName:            "name",
	ByLinkText:        "link_text",
	ByPartialLinkText: "partial_link_text",
	ByCSS:             "css",
}

func (b By) String() string {
	name, ok := byNames[b]
	if !ok {
		return fmt.Sprintf("by(%d)", int(b))
	}
	return name
}

func (b By) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *By) UnmarshalText(text []byte) error {
	normalized := strings.ToLower(strings.TrimSpace(string(text)))
	for by, name := range byNames {
		if name == normalized {
			*b = by
			return nil
		}
	}
	return fmt.Errorf("unknown selector kind %q", text)
}

// Selector locates zero or more elements on the current page.
type Selector struct {
	By    By
	Value string
}

func XPath(value string) Selector           { return Selector{By: ByXPath, Value: value} }
func ID(value string) Selector              { return Selector{By: ByID, Value: value} }
func Name(value string) Selector            { return Selector{By: ByName, Value: value} }
func LinkText(value string) Selector        { return Selector{By: ByLinkText, Value: value} }
func PartialLinkText(value string) Selector { return Selector{By: ByPartialLinkText, Value: value} }
func CSS(value string) Selector             { return Selector{By: ByCSS, Value: value} }

func (s Selector) String() string {
	return fmt.Sprintf("%s:%s", s.By, s.Value)
}

// Index returns an xpath selector for the i-th (1-based) match of s followed
// by an optional relative path, it is only meaningful for xpath selectors.
//
// XPath("//table/tr").Index(2, "td") == XPath("//table/tr[2]/td")
func (s Selector) Index(i int, rest string) Selector {
	value := fmt.Sprintf("%s[%d]", s.Value, i)
	if rest != "" {
		value += "/" + rest
	}
	return Selector{By: s.By, Value: value}
}

// XPathQuery converts any selector into an equivalent xpath expression.
func (s Selector) XPathQuery() (string, bool) {
	switch s.By {
	case ByXPath:
		return s.Value, true
	case ByID:
		return fmt.Sprintf("//*[@id=%s]", xpathLiteral(s.Value)), true
	case ByName:
		return fmt.Sprintf("//*[@name=%s]", xpathLiteral(s.Value)), true
	case ByLinkText:
		return fmt.Sprintf("//a[normalize-space(.)=%s]", xpathLiteral(strings.TrimSpace(s.Value))), true
	case ByPartialLinkText:
		return fmt.Sprintf("//a[contains(., %s)]", xpathLiteral(s.Value)), true
	}
	return "", false
}

// xpath 1.0 has no escape sequences, so strings holding both quote kinds
// have to be assembled with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	return `concat(` + strings.Join(quoted, `, '"', `) + `)`
}
