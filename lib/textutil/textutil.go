package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and removes all whitespace so that
// "Zone A" and "zone  a\n" compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSpace(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Closest returns the candidate most similar to name (jaro-winkler over
// normalized names) and its similarity, it returns "" when candidates is
// empty or every candidate is blank.
func Closest(name string, candidates []string) (string, float64) {
	normalized := NormalizeName(name)
	closest := ""
	var similarity float64
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		sim := matchr.JaroWinkler(normalized, NormalizeName(candidate), false)
		if closest == "" || sim > similarity {
			similarity = sim
			closest = candidate
		}
	}
	return closest, similarity
}
