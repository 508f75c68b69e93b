package extract

import (
	"regexp"
	"sort"
	"strings"
)

// TermCounter counts whole-word, case-insensitive, non-overlapping
// occurrences of a set of term variants
type TermCounter struct {
	re *regexp.Regexp
}

// NewTermCounter builds a counter for the given terms. Longer terms are
// tried first so a variant is never shadowed by its own prefix.
func NewTermCounter(terms ...string) TermCounter {
	sorted := append([]string(nil), terms...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	quoted := make([]string, 0, len(sorted))
	for _, t := range sorted {
		if t = strings.TrimSpace(t); t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	if len(quoted) == 0 {
		return TermCounter{}
	}
	return TermCounter{re: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)}
}

var (
	// Bankruptcy counts bankruptcy and bankruptcies
	Bankruptcy = NewTermCounter("bankruptcy", "bankruptcies")
	// Delisting matches the delisting topic keyword
	Delisting = NewTermCounter("delisting")
)

// Count returns the number of matches in text
func (c TermCounter) Count(text string) int {
	if c.re == nil {
		return 0
	}
	return len(c.re.FindAllStringIndex(text, -1))
}

// Mentions reports whether text contains any of the terms
func (c TermCounter) Mentions(text string) bool {
	return c.re != nil && c.re.MatchString(text)
}
