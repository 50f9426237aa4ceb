package config

import "strings"

// Languages is either SingleLanguage or MergedLanguages.
type Languages interface {
	// Codes returns the language codes searched for the output, in order
	Codes() []string
	isLanguages()
}

// SingleLanguage searches with the output's own short code
type SingleLanguage struct {
	Code string
}

// MergedLanguages searches once per code and merges the results into one feed
type MergedLanguages struct {
	List []string
}

func (s SingleLanguage) Codes() []string { return []string{s.Code} }

func (m MergedLanguages) Codes() []string {
	out := make([]string, len(m.List))
	copy(out, m.List)
	return out
}

func (SingleLanguage) isLanguages()  {}
func (MergedLanguages) isLanguages() {}

// parseLangs splits a comma separated `langs` value. Whitespace around codes
// is dropped and empty items are skipped.
func parseLangs(raw string) []string {
	var codes []string
	for _, c := range strings.Split(raw, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		codes = append(codes, c)
	}
	return codes
}
