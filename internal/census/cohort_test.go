package census

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/workforce-intel/internal/model"
)

func TestGenerationOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		age  int
		want Generation
	}{
		{1, GenZ}, {28, GenZ},
		{29, Millennials}, {44, Millennials},
		{45, GenX}, {60, GenX},
		{61, Boomers}, {99, Boomers},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerationOf(tt.age), "age %d", tt.age)
	}
}

func TestClassify_GenerationsSumToKnownAges(t *testing.T) {
	t.Parallel()

	var rows []model.Row
	for age := 18; age <= 80; age++ {
		rows = append(rows, model.Row{"dob": dobForAge(age)})
	}
	rows = append(rows, model.Row{"dob": ""}, model.Row{"dob": "garbage"})

	emps := employeesFromRows(t, rows)
	c := Classify(emps)
	s := Aggregate(emps)

	assert.Equal(t, s.KnownAgeCount, c.Generations.Total())
	assert.Equal(t, 11, c.Generations.GenZ.Count)        // 18-28
	assert.Equal(t, 16, c.Generations.Millennials.Count) // 29-44
	assert.Equal(t, 16, c.Generations.GenX.Count)        // 45-60
	assert.Equal(t, 20, c.Generations.Boomers.Count)     // 61-80
	assert.Equal(t, 16.9, c.Generations.GenZ.Percent)    // 11/65
}

func TestClassify_WomensLifecycle(t *testing.T) {
	t.Parallel()

	c := Classify(employeesFromRows(t, []model.Row{
		{"dob": dobForAge(45), "gender": "F"},
		{"dob": dobForAge(48), "gender": "F"},
		{"dob": dobForAge(52), "gender": "F"},
	}))

	assert.Equal(t, WomensHealth{FertilityAge: 0, Perimenopause: 2, Menopause: 1}, c.WomensHealth)
}

func TestClassify_FertilityPerimenopauseShareForty(t *testing.T) {
	t.Parallel()

	c := Classify(employeesFromRows(t, []model.Row{{"dob": dobForAge(40), "gender": "female"}}))
	assert.Equal(t, 1, c.WomensHealth.FertilityAge)
	assert.Equal(t, 1, c.WomensHealth.Perimenopause)
	assert.Equal(t, 0, c.WomensHealth.Menopause)
	assert.Equal(t, 1, c.Screening.Breast40To49)
	assert.Equal(t, 0, c.Screening.Breast50To74)
}

func TestClassify_Screening(t *testing.T) {
	t.Parallel()

	c := Classify(employeesFromRows(t, []model.Row{
		{"dob": dobForAge(50), "gender": "F", "is_smoker": "yes"}, // colorectal, breast 50-74, cervical, lung
		{"dob": dobForAge(49), "gender": "F"},                     // colorectal, breast 40-49, cervical
		{"dob": dobForAge(56), "gender": "M"},                     // colorectal, prostate
		{"dob": dobForAge(70), "gender": "M", "is_smoker": "yes"}, // colorectal, lung
		{"dob": dobForAge(21), "gender": "F"},                     // cervical
		{"dob": dobForAge(56), "gender": "Other"},                 // colorectal only
		{"dob": "", "gender": "F", "is_smoker": "yes"},            // nothing
	}))

	assert.Equal(t, Screening{
		Colorectal:   5,
		Breast50To74: 1,
		Breast40To49: 1,
		Cervical:     3,
		Lung:         2,
		Prostate:     1,
	}, c.Screening)
}

func TestClassify_UnknownSexExcludedFromSexCohorts(t *testing.T) {
	t.Parallel()

	c := Classify(employeesFromRows(t, []model.Row{{"dob": dobForAge(60), "gender": "Nonbinary"}}))
	assert.Equal(t, Screening{Colorectal: 1}, c.Screening)
	assert.Equal(t, WomensHealth{}, c.WomensHealth)
}
