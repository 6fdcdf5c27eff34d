// Package analysis composes the census, cohort, claims, funding and risk
// stages into one deterministic result per request.
package analysis

import (
	"strings"
	"time"

	"github.com/sells-group/workforce-intel/internal/census"
	"github.com/sells-group/workforce-intel/internal/claims"
	"github.com/sells-group/workforce-intel/internal/funding"
	"github.com/sells-group/workforce-intel/internal/model"
	"github.com/sells-group/workforce-intel/internal/risk"
)

// Profile defaults used when client metadata omits them.
const (
	DefaultCompanyName = "Client Company"
	DefaultIndustry    = "Technology"
)

// dependent-heavy tiers, compared lower-cased with spaces removed
var dependentTiers = map[string]bool{
	"family":          true,
	"employee+spouse": true,
}

// Profile identifies the client.
type Profile struct {
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
}

// Sources counts the optional inputs that were supplied, so reports can
// tell measured figures from modeled ones.
type Sources struct {
	Claims         int `json:"claims_records"`
	Pharmacy       int `json:"pharmacy_records"`
	LargeClaimants int `json:"large_claimant_records"`
	Utilization    int `json:"utilization_records"`
}

// HasClaims reports whether any claims or pharmacy rows were supplied.
func (s Sources) HasClaims() bool { return s.Claims > 0 || s.Pharmacy > 0 }

// Result is the full aggregate snapshot for one request.
type Result struct {
	Company       Profile                `json:"company"`
	ReferenceDate string                 `json:"reference_date"`
	Census        census.Summary         `json:"census"`
	Cohorts       census.Cohorts         `json:"cohorts"`
	Claims        claims.Totals          `json:"claims"`
	Utilization   claims.Utilization     `json:"utilization"`
	Funding       funding.Classification `json:"funding"`
	Risk          risk.Assessment        `json:"risk"`
	Sources       Sources                `json:"data_sources"`
}

// Run computes every aggregate for req against ref. It never reads the
// clock and never fails: malformed fields fall into unknown buckets.
func Run(req *model.AnalyzeRequest, ref time.Time) *Result {
	calc := census.NewAgeCalculator(ref)
	employees := census.Profile(census.Normalize(req.Census), calc)

	summary := census.Aggregate(employees)
	cohorts := census.Classify(employees)
	totals := claims.Rollup(claims.Normalize(req.Claims))

	res := &Result{
		Company: Profile{
			CompanyName: orDefault(req.ClientInfo.String("company_name"), DefaultCompanyName),
			Industry:    orDefault(req.ClientInfo.String("industry"), DefaultIndustry),
		},
		ReferenceDate: calc.Reference().Format(time.DateOnly),
		Census:        summary,
		Cohorts:       cohorts,
		Claims:        totals,
		Utilization:   claims.MatchUtilization(req.Utilization),
		Funding:       funding.Classify(req.ClientInfo),
		Sources: Sources{
			Claims:         len(req.Claims),
			Pharmacy:       len(req.Pharmacy),
			LargeClaimants: len(req.LargeClaimants),
			Utilization:    len(req.Utilization),
		},
	}
	res.Risk = risk.Assess(riskInputs(summary, cohorts, totals))
	return res
}

func riskInputs(s census.Summary, c census.Cohorts, t claims.Totals) risk.Inputs {
	in := risk.Inputs{
		Enrolled:          s.EnrolledEmployees,
		AverageAge:        s.AverageAge,
		OlderCount:        c.Generations.GenX.Count + c.Generations.Boomers.Count,
		HighCostClaimants: t.HighCostClaimants,
		GLP1Spend:         t.GLP1,
		SpecialtyRxSpend:  t.SpecialtyRx,
		Smokers:           s.SmokerCount,
	}
	for _, tier := range s.CoverageTiers {
		if IsDependentTier(tier.Tier) {
			in.DependentTierCount += tier.Count
		}
	}
	return in
}

// IsDependentTier reports whether a coverage tier name denotes Family or
// Employee + Spouse coverage.
func IsDependentTier(name string) bool {
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	return dependentTiers[key]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
