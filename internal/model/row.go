// Package model holds the inbound request shapes and the canonical employee
// record the analysis consumes.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Row is one caller-supplied record: a JSON object or a spreadsheet row keyed
// by its header. Values may be strings, numbers, booleans or null.
type Row map[string]any

// String resolves the first alias holding a non-blank value and returns it
// trimmed. Missing, null, blank and non-scalar values all resolve to "".
func (r Row) String(aliases ...string) string {
	for _, key := range aliases {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Has reports whether any alias holds a non-blank value.
func (r Row) Has(aliases ...string) bool {
	return r.String(aliases...) != ""
}

// Int reads a whole number with leading-integer semantics: "55000.75" is
// 55000, "42 visits" is 42, and anything without leading digits is 0.
func (r Row) Int(aliases ...string) int64 {
	return LeadingInt(r.String(aliases...))
}

// Bool reports whether the value is a JSON true or a yes/true string.
func (r Row) Bool(aliases ...string) bool {
	for _, key := range aliases {
		switch v := r[key].(type) {
		case bool:
			if v {
				return true
			}
		case string:
			s := strings.ToLower(strings.TrimSpace(v))
			if s == "yes" || s == "true" {
				return true
			}
		}
	}
	return false
}

// Money reads a currency amount, tolerating "$" and thousands separators.
// Unparseable values read as zero.
func (r Row) Money(aliases ...string) decimal.Decimal {
	return ParseMoney(r.String(aliases...))
}

// LeadingInt parses an optionally signed run of leading digits.
func LeadingInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	var n int64
	digits := 0
	for _, c := range s {
		if c < '0' || c > '9' || digits == 18 {
			break
		}
		n = n*10 + int64(c-'0')
		digits++
	}
	if neg {
		return -n
	}
	return n
}

// ParseMoney parses "$1,234.50", "1234.5" or "1234" into a decimal amount.
func ParseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
