package census

import "github.com/sells-group/workforce-intel/internal/model"

// Generation is one of four disjoint age bands.
type Generation string

const (
	GenZ        Generation = "gen_z"       // <= 28
	Millennials Generation = "millennials" // 29-44
	GenX        Generation = "gen_x"       // 45-60
	Boomers     Generation = "boomers"     // > 60
)

// GenerationOf buckets a known age.
func GenerationOf(age int) Generation {
	switch {
	case age <= 28:
		return GenZ
	case age <= 44:
		return Millennials
	case age <= 60:
		return GenX
	default:
		return Boomers
	}
}

// CohortCount is a headcount with its share of enrolled employees.
type CohortCount struct {
	Count   int     `json:"count"`
	Percent float64 `json:"pct"`
}

// Generations holds the generational breakdown.
type Generations struct {
	GenZ        CohortCount `json:"gen_z"`
	Millennials CohortCount `json:"millennials"`
	GenX        CohortCount `json:"gen_x"`
	Boomers     CohortCount `json:"boomers"`
}

// Total is the number of employees placed in any generation.
func (g Generations) Total() int {
	return g.GenZ.Count + g.Millennials.Count + g.GenX.Count + g.Boomers.Count
}

// Screening holds USPSTF cancer-screening eligibility counts. An employee may
// count toward several cohorts.
type Screening struct {
	Colorectal   int `json:"colorectal"`
	Breast50To74 int `json:"breast_50_74"`
	Breast40To49 int `json:"breast_40_49"`
	Cervical     int `json:"cervical"`
	Lung         int `json:"lung"`
	Prostate     int `json:"prostate"`
}

// WomensHealth holds lifecycle-stage counts for female employees. The
// fertility and perimenopause bands share age 40.
type WomensHealth struct {
	FertilityAge  int `json:"fertility_age"`
	Perimenopause int `json:"perimenopause"`
	Menopause     int `json:"menopause"`
}

// Cohorts is the output of the cohort classifier.
type Cohorts struct {
	Generations  Generations  `json:"generational_breakdown"`
	Screening    Screening    `json:"cancer_screening"`
	WomensHealth WomensHealth `json:"womens_health"`
}

type eligibility struct {
	minAge, maxAge int
	sex            model.Sex // SexUnknown matches any sex
	smokerOnly     bool
	count          func(*Cohorts) *int
}

var eligibilityRules = []eligibility{
	{minAge: 45, maxAge: 75, count: func(c *Cohorts) *int { return &c.Screening.Colorectal }},
	{minAge: 50, maxAge: 74, sex: model.SexFemale, count: func(c *Cohorts) *int { return &c.Screening.Breast50To74 }},
	{minAge: 40, maxAge: 49, sex: model.SexFemale, count: func(c *Cohorts) *int { return &c.Screening.Breast40To49 }},
	{minAge: 21, maxAge: 65, sex: model.SexFemale, count: func(c *Cohorts) *int { return &c.Screening.Cervical }},
	{minAge: 50, maxAge: 80, smokerOnly: true, count: func(c *Cohorts) *int { return &c.Screening.Lung }},
	{minAge: 55, maxAge: 69, sex: model.SexMale, count: func(c *Cohorts) *int { return &c.Screening.Prostate }},
	{minAge: 25, maxAge: 40, sex: model.SexFemale, count: func(c *Cohorts) *int { return &c.WomensHealth.FertilityAge }},
	{minAge: 40, maxAge: 50, sex: model.SexFemale, count: func(c *Cohorts) *int { return &c.WomensHealth.Perimenopause }},
	{minAge: 51, maxAge: 99, sex: model.SexFemale, count: func(c *Cohorts) *int { return &c.WomensHealth.Menopause }},
}

func (r eligibility) matches(e Employee) bool {
	if !e.AgeKnown || e.Age < r.minAge || e.Age > r.maxAge {
		return false
	}
	if r.sex != model.SexUnknown && e.Sex != r.sex {
		return false
	}
	if r.smokerOnly && !e.Smoker {
		return false
	}
	return true
}

// Classify buckets employees into generations and flags every eligibility
// cohort they satisfy. Employees with unknown age are in no cohort.
func Classify(employees []Employee) Cohorts {
	var c Cohorts
	for _, e := range employees {
		if !e.AgeKnown {
			continue
		}
		switch GenerationOf(e.Age) {
		case GenZ:
			c.Generations.GenZ.Count++
		case Millennials:
			c.Generations.Millennials.Count++
		case GenX:
			c.Generations.GenX.Count++
		case Boomers:
			c.Generations.Boomers.Count++
		}
		for _, rule := range eligibilityRules {
			if rule.matches(e) {
				(*rule.count(&c))++
			}
		}
	}

	enrolled := len(employees)
	for _, g := range []*CohortCount{&c.Generations.GenZ, &c.Generations.Millennials, &c.Generations.GenX, &c.Generations.Boomers} {
		g.Percent = round1(Percent(g.Count, enrolled))
	}
	return c
}
