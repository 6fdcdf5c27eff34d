// Package funding classifies a client's plan funding structure from free
// text and gates the monetary figures that structure allows.
package funding

import (
	"encoding/json"
	"slices"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/sells-group/workforce-intel/internal/model"
)

// Type is the detected funding structure.
type Type string

const (
	FullyInsured Type = "fully_insured"
	SelfFunded   Type = "self_funded"
	LevelFunded  Type = "level_funded"
)

var labels = map[Type]string{
	FullyInsured: "Fully Insured",
	SelfFunded:   "Self-Funded (ASO)",
	LevelFunded:  "Level-Funded",
}

var (
	selfFundedNeedles = []string{"self-fund", "self fund", "administrative services only"}
	asoWord           = "aso"
	levelFundedNeedle = "level"
	intentNeedle      = "self-fund"
)

// Classification holds the funding flags. FullyInsured and SelfFunded are
// never both true. The innovation fund is only reachable through
// InnovationFund, which reports zero unless the plan is self-funded.
type Classification struct {
	Type           Type
	FullyInsured   bool
	SelfFunded     bool
	ConsideringASO bool

	fund decimal.Decimal
}

// Classify reads funding_type (or current_funding_type), considering_aso,
// strategic_priorities (or strategic_notes) and wellness_fund (or
// innovation_fund) from client metadata. Empty or unrecognized funding text
// defaults to fully insured.
func Classify(info model.Row) Classification {
	text := strings.ToLower(info.String("funding_type", "current_funding_type"))

	c := Classification{Type: FullyInsured}
	switch {
	case hasWord(text, asoWord) || containsAny(text, selfFundedNeedles):
		c.Type = SelfFunded
		c.SelfFunded = true
	case strings.Contains(text, levelFundedNeedle):
		c.Type = LevelFunded
	}
	c.FullyInsured = !c.SelfFunded

	c.ConsideringASO = info.Bool("considering_aso") ||
		strings.Contains(strings.ToLower(info.String("strategic_priorities", "strategic_notes")), intentNeedle)

	if c.SelfFunded {
		c.fund = info.Money("wellness_fund", "innovation_fund")
	}
	return c
}

// Label is the display name of the funding type.
func (c Classification) Label() string {
	if l, ok := labels[c.Type]; ok {
		return l
	}
	return labels[FullyInsured]
}

// InnovationFund returns the wellness/innovation fund amount, which is always
// zero for fully insured plans.
func (c Classification) InnovationFund() decimal.Decimal {
	if c.FullyInsured || !c.SelfFunded {
		return decimal.Zero
	}
	return c.fund
}

type classificationJSON struct {
	Type           Type            `json:"type"`
	Label          string          `json:"label"`
	FullyInsured   bool            `json:"fully_insured"`
	SelfFunded     bool            `json:"self_funded"`
	ConsideringASO bool            `json:"considering_aso"`
	InnovationFund decimal.Decimal `json:"innovation_fund"`
}

// MarshalJSON emits the gated fund figure, never the raw input.
func (c Classification) MarshalJSON() ([]byte, error) {
	return json.Marshal(classificationJSON{
		Type:           c.Type,
		Label:          c.Label(),
		FullyInsured:   c.FullyInsured,
		SelfFunded:     c.SelfFunded,
		ConsideringASO: c.ConsideringASO,
		InnovationFund: c.InnovationFund(),
	})
}

// hasWord reports whether word appears in s as a whole run of letters, so
// "aso" matches "ASO/stop-loss" but not "seasonal".
func hasWord(s, word string) bool {
	return slices.Contains(strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }), word)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
