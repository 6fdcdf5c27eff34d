// Package risk combines census, cohort and claims aggregates into a bounded
// workforce risk score with the factors that produced it.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sells-group/workforce-intel/internal/census"
)

// Score bounds and starting point.
const (
	Baseline = 50
	MinScore = 25
	MaxScore = 95
)

// Severity labels a contributing factor.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
)

// Category bands the final score.
type Category string

const (
	CategoryHigh     Category = "High"
	CategoryElevated Category = "Elevated"
	CategoryModerate Category = "Moderate"
)

var categoryColors = map[Category]string{
	CategoryHigh:     "#ef4444",
	CategoryElevated: "#f59e0b",
	CategoryModerate: "#22c55e",
}

// Inputs are the aggregate figures the rules read. Percentages are taken
// over Enrolled.
type Inputs struct {
	Enrolled           int
	AverageAge         *float64
	OlderCount         int // employees aged 45 and over
	HighCostClaimants  int64
	GLP1Spend          decimal.Decimal
	SpecialtyRxSpend   decimal.Decimal
	Smokers            int
	DependentTierCount int // Family plus Employee + Spouse
}

// Factor is one fired rule.
type Factor struct {
	Description string   `json:"factor"`
	Delta       int      `json:"delta"`
	Impact      string   `json:"impact"`
	Severity    Severity `json:"severity"`
}

// Assessment is the final risk result.
type Assessment struct {
	Score    int      `json:"score"`
	RawScore int      `json:"raw_score"`
	Category Category `json:"category"`
	Color    string   `json:"color"`
	Factors  []Factor `json:"factors"`
}

var (
	glp1Threshold      = decimal.NewFromInt(200_000)
	specialtyThreshold = decimal.NewFromInt(500_000)
	thousand           = decimal.NewFromInt(1000)
)

// Assess applies every rule in order, then clamps to [MinScore, MaxScore].
// Tiered rules fire at most one tier.
func Assess(in Inputs) Assessment {
	a := Assessment{Factors: []Factor{}}
	score := Baseline
	add := func(delta int, sev Severity, format string, args ...any) {
		score += delta
		a.Factors = append(a.Factors, Factor{
			Description: fmt.Sprintf(format, args...),
			Delta:       delta,
			Impact:      fmt.Sprintf("%+d", delta),
			Severity:    sev,
		})
	}

	if in.AverageAge != nil {
		switch avg := *in.AverageAge; {
		case avg > 45:
			add(12, SeverityHigh, "Aging workforce (avg %.1f)", avg)
		case avg > 40:
			add(6, SeverityMedium, "Mature workforce (avg %.1f)", avg)
		}
	}

	older := census.Percent(in.OlderCount, in.Enrolled)
	switch {
	case older > 50:
		add(10, SeverityHigh, "High 45+ concentration (%.0f%%)", older)
	case older > 40:
		add(5, SeverityMedium, "Elevated 45+ concentration (%.0f%%)", older)
	}

	switch {
	case in.HighCostClaimants > 10:
		add(15, SeverityHigh, "%d high-cost claimants (>$50K)", in.HighCostClaimants)
	case in.HighCostClaimants > 5:
		add(8, SeverityMedium, "%d high-cost claimants", in.HighCostClaimants)
	}

	if in.GLP1Spend.GreaterThan(glp1Threshold) {
		add(8, SeverityHigh, "GLP-1 spend $%sK", in.GLP1Spend.Div(thousand).StringFixed(0))
	}

	if in.SpecialtyRxSpend.GreaterThan(specialtyThreshold) {
		add(6, SeverityMedium, "Specialty Rx spend $%sK", in.SpecialtyRxSpend.Div(thousand).StringFixed(0))
	}

	if smokers := census.Percent(in.Smokers, in.Enrolled); smokers > 10 {
		add(8, SeverityHigh, "Elevated smoking rate (%.1f%%)", smokers)
	}

	if dependent := census.Percent(in.DependentTierCount, in.Enrolled); dependent > 60 {
		add(5, SeverityMedium, "High dependent coverage (%.0f%%)", dependent)
	}

	a.RawScore = score
	a.Score = clamp(score, MinScore, MaxScore)
	a.Category = categorize(a.Score)
	a.Color = categoryColors[a.Category]
	return a
}

func categorize(score int) Category {
	switch {
	case score >= 75:
		return CategoryHigh
	case score >= 50:
		return CategoryElevated
	default:
		return CategoryModerate
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
