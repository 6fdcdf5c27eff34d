package analysis

import (
	"time"

	"github.com/sells-group/workforce-intel/internal/census"
	"github.com/sells-group/workforce-intel/internal/claims"
	"github.com/sells-group/workforce-intel/internal/risk"
)

// Metadata is the flat summary returned alongside every generated report.
type Metadata struct {
	CompanyName           string              `json:"company_name"`
	Industry              string              `json:"industry"`
	FundingType           string              `json:"funding_type"`
	ConsideringASO        bool                `json:"considering_aso"`
	EnrolledEmployees     int                 `json:"enrolled_employees"`
	TotalDependents       int                 `json:"total_dependents"`
	TotalCoveredLives     int                 `json:"total_covered_lives"`
	AverageAge            *float64            `json:"average_age"`
	MedianAge             *int                `json:"median_age"`
	RiskScore             int                 `json:"risk_score"`
	RiskCategory          risk.Category       `json:"risk_category"`
	GenerationalBreakdown census.Generations  `json:"generational_breakdown"`
	ClaimsInsights        claims.Totals       `json:"claims_insights"`
	CancerScreening       census.Screening    `json:"cancer_screening"`
	WomensHealth          census.WomensHealth `json:"womens_health"`
	DataSources           Sources             `json:"data_sources"`
	GeneratedAt           time.Time           `json:"generated_at"`
	ReferenceDate         string              `json:"reference_date"`
}

// Metadata flattens the result. generatedAt is supplied by the caller so the
// result itself stays clock-free.
func (r *Result) Metadata(generatedAt time.Time) Metadata {
	return Metadata{
		CompanyName:           r.Company.CompanyName,
		Industry:              r.Company.Industry,
		FundingType:           r.Funding.Label(),
		ConsideringASO:        r.Funding.ConsideringASO,
		EnrolledEmployees:     r.Census.EnrolledEmployees,
		TotalDependents:       r.Census.Dependents.Total,
		TotalCoveredLives:     r.Census.TotalCoveredLives,
		AverageAge:            r.Census.AverageAge,
		MedianAge:             r.Census.MedianAge,
		RiskScore:             r.Risk.Score,
		RiskCategory:          r.Risk.Category,
		GenerationalBreakdown: r.Cohorts.Generations,
		ClaimsInsights:        r.Claims,
		CancerScreening:       r.Cohorts.Screening,
		WomensHealth:          r.Cohorts.WomensHealth,
		DataSources:           r.Sources,
		GeneratedAt:           generatedAt.UTC(),
		ReferenceDate:         r.ReferenceDate,
	}
}
