// Package census turns raw employee census rows into deterministic workforce
// aggregates: ages, dependents, departments, coverage tiers and cohorts.
package census

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rotisserie/eris"
)

// DefaultReferenceDate is the frozen "now" every age is computed against
// unless the caller or configuration supplies another.
const DefaultReferenceDate = "2026-01-28"

const referenceLayout = "2006-01-02"

// ParseReferenceDate parses a YYYY-MM-DD reference date. Blank input yields
// DefaultReferenceDate.
func ParseReferenceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultReferenceDate
	}
	t, err := time.Parse(referenceLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "census: parse reference date %q", s)
	}
	return t, nil
}

// AgeAt returns the completed years between dob and ref. The second result is
// false when dob is blank, unparseable, or yields an age outside (0, 100).
func AgeAt(dob string, ref time.Time) (int, bool) {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return 0, false
	}
	birth, err := dateparse.ParseIn(dob, time.UTC)
	if err != nil {
		return 0, false
	}

	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	if age <= 0 || age >= 100 {
		return 0, false
	}
	return age, true
}

type ageFact struct {
	years int
	known bool
}

// AgeCalculator memoizes AgeAt for one reference date. It is not safe for
// concurrent use; create one per analysis.
type AgeCalculator struct {
	ref   time.Time
	cache map[string]ageFact
}

// NewAgeCalculator returns a calculator pinned to ref.
func NewAgeCalculator(ref time.Time) *AgeCalculator {
	return &AgeCalculator{ref: ref, cache: make(map[string]ageFact)}
}

// Reference returns the pinned reference date.
func (c *AgeCalculator) Reference() time.Time {
	return c.ref
}

// Age is AgeAt against the pinned reference date.
func (c *AgeCalculator) Age(dob string) (int, bool) {
	if f, ok := c.cache[dob]; ok {
		return f.years, f.known
	}
	years, known := AgeAt(dob, c.ref)
	c.cache[dob] = ageFact{years: years, known: known}
	return years, known
}
