// Package claims rolls optional claims records into named spend categories
// and passes utilization metrics through by name.
package claims

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sells-group/workforce-intel/internal/model"
)

// Record is one normalized claims row.
type Record struct {
	Category          string // lower-cased free text
	Paid              decimal.Decimal
	ClaimCount        int64
	HighCostClaimants int64
}

// Normalize reads category, total_paid, claim_count and high_cost_claimants
// from each row. Unreadable numbers become zero.
func Normalize(rows []model.Row) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, Record{
			Category:          strings.ToLower(row.String("category")),
			Paid:              row.Money("total_paid"),
			ClaimCount:        row.Int("claim_count"),
			HighCostClaimants: row.Int("high_cost_claimants"),
		})
	}
	return out
}

// Totals accumulates spend per category. Category amounts are not exclusive:
// one record may land in several, while TotalPaid counts it once.
type Totals struct {
	TotalPaid         decimal.Decimal `json:"total_paid"`
	GLP1              decimal.Decimal `json:"glp1_spend"`
	SpecialtyRx       decimal.Decimal `json:"specialty_rx_spend"`
	Oncology          decimal.Decimal `json:"oncology_spend"`
	Cardiac           decimal.Decimal `json:"cardiac_spend"`
	MentalHealth      decimal.Decimal `json:"mental_health_spend"`
	Dialysis          decimal.Decimal `json:"dialysis_spend"`
	Maternity         decimal.Decimal `json:"maternity_spend"`
	ERVisits          int64           `json:"er_visits"`
	HighCostClaimants int64           `json:"high_cost_claimants"`
}

type categoryRule struct {
	needles []string
	bucket  func(*Totals) *decimal.Decimal
}

var categoryRules = []categoryRule{
	{[]string{"glp-1", "glp1"}, func(t *Totals) *decimal.Decimal { return &t.GLP1 }},
	{[]string{"specialty"}, func(t *Totals) *decimal.Decimal { return &t.SpecialtyRx }},
	{[]string{"oncology", "chemotherapy", "radiation"}, func(t *Totals) *decimal.Decimal { return &t.Oncology }},
	{[]string{"cardiac"}, func(t *Totals) *decimal.Decimal { return &t.Cardiac }},
	{[]string{"mental health"}, func(t *Totals) *decimal.Decimal { return &t.MentalHealth }},
	{[]string{"dialysis"}, func(t *Totals) *decimal.Decimal { return &t.Dialysis }},
	{[]string{"maternity"}, func(t *Totals) *decimal.Decimal { return &t.Maternity }},
}

const emergencyNeedle = "emergency"

// Rollup accumulates category totals over records.
//
// An "emergency" record overwrites ERVisits with its claim count rather than
// adding to it, so with several emergency rows the last one wins.
func Rollup(records []Record) Totals {
	t := Totals{
		TotalPaid:    decimal.Zero,
		GLP1:         decimal.Zero,
		SpecialtyRx:  decimal.Zero,
		Oncology:     decimal.Zero,
		Cardiac:      decimal.Zero,
		MentalHealth: decimal.Zero,
		Dialysis:     decimal.Zero,
		Maternity:    decimal.Zero,
	}
	for _, r := range records {
		t.TotalPaid = t.TotalPaid.Add(r.Paid)
		for _, rule := range categoryRules {
			if containsAny(r.Category, rule.needles) {
				b := rule.bucket(&t)
				*b = b.Add(r.Paid)
			}
		}
		if strings.Contains(r.Category, emergencyNeedle) {
			t.ERVisits = r.ClaimCount
		}
		t.HighCostClaimants += r.HighCostClaimants
	}
	return t
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
