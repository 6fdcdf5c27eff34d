package census

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/workforce-intel/internal/model"
)

func sampleRows() []model.Row {
	return []model.Row{
		{"dob": dobForAge(30), "gender": "F", "department": "Engineering", "coverage_tier": "Employee Only", "salary": "100000"},
		{"dob": dobForAge(52), "gender": "M", "department": "Engineering", "coverage_tier": "Family", "salary": "150000", "is_smoker": "yes",
			"spouse_dob": dobForAge(50), "dep1_dob": "2018-06-01", "dep2_dob": "garbled"},
		{"dob": dobForAge(41), "gender": "F", "department": "Sales", "coverage_tier": "Employee + Spouse", "salary": "abc", "spouse_dob": dobForAge(40)},
		{"dob": "", "gender": "", "coverage_tier": "Family", "salary": "0"},
		{"dob": dobForAge(63), "gender": "male", "department": "Sales", "coverage_tier": "Family", "salary": "90000", "dep1_dob": "2005-01-01"},
	}
}

func TestAggregate_Basics(t *testing.T) {
	t.Parallel()
	s := Aggregate(employeesFromRows(t, sampleRows()))

	assert.Equal(t, 5, s.EnrolledEmployees)
	assert.Equal(t, 4, s.KnownAgeCount)
	require.NotNil(t, s.AverageAge)
	assert.Equal(t, 46.5, *s.AverageAge) // (30+52+41+63)/4
	require.NotNil(t, s.MedianAge)
	assert.Equal(t, 52, *s.MedianAge) // sorted [30 41 52 63], index 2
	assert.Equal(t, 30, *s.MinAge)
	assert.Equal(t, 63, *s.MaxAge)

	assert.Equal(t, GenderSplit{Male: 2, Female: 2, Unspecified: 1, MalePct: 40, FemalePct: 40}, s.Gender)
	assert.Equal(t, 1, s.SmokerCount)
}

func TestAggregate_Departments(t *testing.T) {
	t.Parallel()
	s := Aggregate(employeesFromRows(t, sampleRows()))

	require.Len(t, s.Departments, 3)
	assert.Equal(t, DepartmentStats{Name: "Engineering", Count: 2, AverageAge: 41, Over50Count: 1, Over50Pct: 50, AverageSalary: 125000}, s.Departments[0])
	assert.Equal(t, DepartmentStats{Name: "Sales", Count: 2, AverageAge: 52, Over50Count: 1, Over50Pct: 50, AverageSalary: 90000}, s.Departments[1])
	assert.Equal(t, DepartmentStats{Name: model.UnknownBucket, Count: 1}, s.Departments[2])
}

func TestAggregate_CoverageTiers(t *testing.T) {
	t.Parallel()
	s := Aggregate(employeesFromRows(t, sampleRows()))

	assert.Equal(t, []TierCount{
		{Tier: "Employee Only", Count: 1, Percent: 20},
		{Tier: "Family", Count: 3, Percent: 60},
		{Tier: "Employee + Spouse", Count: 1, Percent: 20},
	}, s.CoverageTiers)
}

func TestAggregate_Dependents(t *testing.T) {
	t.Parallel()
	s := Aggregate(employeesFromRows(t, sampleRows()))

	assert.Equal(t, 2, s.Dependents.Spouses)
	assert.Equal(t, 3, s.Dependents.Children) // includes the garbled DOB
	assert.Equal(t, 5, s.Dependents.Total)
	assert.Equal(t, []int{7, 21}, s.Dependents.ChildAges)
	require.NotNil(t, s.Dependents.AverageChildAge)
	assert.Equal(t, 14.0, *s.Dependents.AverageChildAge)
	assert.Equal(t, ChildBands{SchoolAge: 1, YoungAdult: 1}, s.Dependents.ChildBands)
	assert.Equal(t, 10, s.TotalCoveredLives)
}

func TestAggregate_UnparseableChildStillCounts(t *testing.T) {
	t.Parallel()

	base := Aggregate(employeesFromRows(t, []model.Row{{"dob": dobForAge(40)}}))
	with := Aggregate(employeesFromRows(t, []model.Row{{"dob": dobForAge(40), "dep1_dob": "31/31/31xx"}}))

	assert.Equal(t, base.Dependents.Children+1, with.Dependents.Children)
	assert.Equal(t, base.Dependents.Total+1, with.Dependents.Total)
	assert.Empty(t, with.Dependents.ChildAges)
	assert.Nil(t, with.Dependents.AverageChildAge)
}

func TestAggregate_NoKnownAges(t *testing.T) {
	t.Parallel()
	s := Aggregate(employeesFromRows(t, []model.Row{{"dob": "n/a"}, {"department": "Ops"}}))

	assert.Equal(t, 2, s.EnrolledEmployees)
	assert.Equal(t, 0, s.KnownAgeCount)
	assert.Nil(t, s.AverageAge)
	assert.Nil(t, s.MedianAge)
	assert.Nil(t, s.MinAge)
	assert.Nil(t, s.MaxAge)
	assert.Equal(t, 0.0, s.Departments[0].AverageAge)
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()
	s := Aggregate(nil)

	assert.Equal(t, 0, s.EnrolledEmployees)
	assert.Empty(t, s.Departments)
	assert.Equal(t, 0, s.Gender.MalePct)
}

func TestAggregate_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := json.Marshal(Aggregate(employeesFromRows(t, sampleRows())))
	require.NoError(t, err)
	second, err := json.Marshal(Aggregate(employeesFromRows(t, sampleRows())))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestPercent(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 50.0, Percent(1, 2))
}
