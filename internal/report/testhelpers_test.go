package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/workforce-intel/internal/analysis"
	"github.com/sells-group/workforce-intel/internal/funding"
	"github.com/sells-group/workforce-intel/internal/model"
)

// MockModel implements Model for testing.
type MockModel struct {
	mock.Mock
}

func (m *MockModel) Complete(ctx context.Context, req Request) (*Completion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Completion), args.Error(1)
}

var testRef = time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

const sampleBody = `{
  "census_data": [
    {"dob": "1960-05-01", "gender": "M", "department": "Plant", "coverage_tier": "Family", "is_smoker": "yes", "salary": 64000, "spouse_dob": "1962-01-01", "dep1_dob": "2012-03-03"},
    {"dob": "1985-09-09", "gender": "F", "department": "Office", "coverage_tier": "Employee Only", "salary": 1200500},
    {"dob": "1978-01-01", "gender": "F", "department": "Plant", "coverage_tier": "Employee + Spouse", "spouse_dob": "1977-01-01"}
  ],
  "claims_data": [
    {"category": "GLP-1", "total_paid": "212345.67", "high_cost_claimants": 2}
  ],
  "utilization_data": [{"metric_name": "Pharmacy PMPM", "current_period": "$142.80"}],
  "client_info": {"company_name": "Northwind", "industry": "Manufacturing", "funding_type": "Fully Insured", "wellness_fund": 40000, "considering_aso": true}
}`

func sampleResult(t *testing.T) *analysis.Result {
	t.Helper()
	var req model.AnalyzeRequest
	require.NoError(t, json.Unmarshal([]byte(sampleBody), &req))
	return analysis.Run(&req, testRef)
}

func analysisFunding(t *testing.T, info string) funding.Classification {
	t.Helper()
	var row model.Row
	require.NoError(t, json.Unmarshal([]byte(info), &row))
	return funding.Classify(row)
}
