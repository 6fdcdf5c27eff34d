package census

import (
	"math"
	"sort"

	"github.com/sells-group/workforce-intel/internal/model"
)

// Employee pairs a normalized record with ages computed against the
// reference date. ChildAges holds only the parseable child DOBs.
type Employee struct {
	model.EmployeeRecord
	Age       int
	AgeKnown  bool
	ChildAges []int
}

// Profile computes per-employee ages once so the aggregator and the cohort
// classifier agree on every value.
func Profile(records []model.EmployeeRecord, calc *AgeCalculator) []Employee {
	out := make([]Employee, len(records))
	for i, rec := range records {
		e := Employee{EmployeeRecord: rec}
		e.Age, e.AgeKnown = calc.Age(rec.DateOfBirth)
		for _, dob := range rec.ChildDOBs {
			if age, ok := calc.Age(dob); ok {
				e.ChildAges = append(e.ChildAges, age)
			}
		}
		out[i] = e
	}
	return out
}

// Summary is the census aggregate snapshot. Optional statistics are nil when
// no employee has a known age.
type Summary struct {
	EnrolledEmployees int               `json:"enrolled_employees"`
	KnownAgeCount     int               `json:"known_age_count"`
	AverageAge        *float64          `json:"average_age"`
	MedianAge         *int              `json:"median_age"`
	MinAge            *int              `json:"min_age"`
	MaxAge            *int              `json:"max_age"`
	Gender            GenderSplit       `json:"gender"`
	Departments       []DepartmentStats `json:"departments"`
	CoverageTiers     []TierCount       `json:"coverage_tiers"`
	SmokerCount       int               `json:"smoker_count"`
	Dependents        Dependents        `json:"dependents"`
	TotalCoveredLives int               `json:"total_covered_lives"`
}

// GenderSplit counts employees by sex; percentages are of enrolled employees.
type GenderSplit struct {
	Male        int `json:"male"`
	Female      int `json:"female"`
	Unspecified int `json:"unspecified"`
	MalePct     int `json:"male_pct"`
	FemalePct   int `json:"female_pct"`
}

// DepartmentStats is the finalized aggregate for one department.
type DepartmentStats struct {
	Name          string  `json:"name"`
	Count         int     `json:"count"`
	AverageAge    float64 `json:"average_age"`
	Over50Count   int     `json:"over_50_count"`
	Over50Pct     int     `json:"over_50_pct"`
	AverageSalary int64   `json:"average_salary"`
}

// TierCount is the headcount of one coverage tier.
type TierCount struct {
	Tier    string `json:"tier"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// Dependents counts covered spouses and children from DOB presence alone.
type Dependents struct {
	Total           int        `json:"total"`
	Spouses         int        `json:"spouses"`
	Children        int        `json:"children"`
	ChildAges       []int      `json:"child_ages"`
	AverageChildAge *float64   `json:"average_child_age"`
	ChildBands      ChildBands `json:"child_bands"`
}

// ChildBands buckets known child ages by pediatric stage.
type ChildBands struct {
	Under5     int `json:"under_5"`
	SchoolAge  int `json:"ages_5_12"`
	Adolescent int `json:"ages_13_17"`
	YoungAdult int `json:"ages_18_26"`
}

type departmentAcc struct {
	name     string
	count    int
	ages     []int
	salaries []int64
}

// Aggregate builds the census Summary in a single pass. Departments are
// ordered by headcount, ties by first appearance; tiers by first appearance.
func Aggregate(employees []Employee) Summary {
	s := Summary{
		EnrolledEmployees: len(employees),
		Departments:       []DepartmentStats{},
		CoverageTiers:     []TierCount{},
		Dependents:        Dependents{ChildAges: []int{}},
	}

	var ages []int
	depts := make(map[string]*departmentAcc)
	var deptOrder []*departmentAcc
	tiers := make(map[string]int)
	var tierOrder []string

	for _, e := range employees {
		if e.AgeKnown {
			ages = append(ages, e.Age)
		}

		switch e.Sex {
		case model.SexMale:
			s.Gender.Male++
		case model.SexFemale:
			s.Gender.Female++
		default:
			s.Gender.Unspecified++
		}

		d, ok := depts[e.Department]
		if !ok {
			d = &departmentAcc{name: e.Department}
			depts[e.Department] = d
			deptOrder = append(deptOrder, d)
		}
		d.count++
		if e.AgeKnown {
			d.ages = append(d.ages, e.Age)
		}
		if e.Salary > 0 {
			d.salaries = append(d.salaries, e.Salary)
		}

		if _, ok := tiers[e.CoverageTier]; !ok {
			tierOrder = append(tierOrder, e.CoverageTier)
		}
		tiers[e.CoverageTier]++

		if e.Smoker {
			s.SmokerCount++
		}

		if e.SpouseDOB != "" {
			s.Dependents.Spouses++
			s.Dependents.Total++
		}
		s.Dependents.Children += len(e.ChildDOBs)
		s.Dependents.Total += len(e.ChildDOBs)
		s.Dependents.ChildAges = append(s.Dependents.ChildAges, e.ChildAges...)
	}

	s.KnownAgeCount = len(ages)
	s.TotalCoveredLives = s.EnrolledEmployees + s.Dependents.Total
	s.Gender.MalePct = roundInt(Percent(s.Gender.Male, s.EnrolledEmployees))
	s.Gender.FemalePct = roundInt(Percent(s.Gender.Female, s.EnrolledEmployees))

	if len(ages) > 0 {
		avg := round1(meanInts(ages))
		sorted := append([]int(nil), ages...)
		sort.Ints(sorted)
		median := sorted[len(sorted)/2]
		lo, hi := sorted[0], sorted[len(sorted)-1]
		s.AverageAge, s.MedianAge, s.MinAge, s.MaxAge = &avg, &median, &lo, &hi
	}

	for _, d := range deptOrder {
		s.Departments = append(s.Departments, d.finalize())
	}
	sort.SliceStable(s.Departments, func(i, j int) bool {
		return s.Departments[i].Count > s.Departments[j].Count
	})

	for _, tier := range tierOrder {
		s.CoverageTiers = append(s.CoverageTiers, TierCount{
			Tier:    tier,
			Count:   tiers[tier],
			Percent: roundInt(Percent(tiers[tier], s.EnrolledEmployees)),
		})
	}

	if n := len(s.Dependents.ChildAges); n > 0 {
		avg := round1(meanInts(s.Dependents.ChildAges))
		s.Dependents.AverageChildAge = &avg
	}
	for _, age := range s.Dependents.ChildAges {
		switch {
		case age < 5:
			s.Dependents.ChildBands.Under5++
		case age < 13:
			s.Dependents.ChildBands.SchoolAge++
		case age < 18:
			s.Dependents.ChildBands.Adolescent++
		case age <= 26:
			s.Dependents.ChildBands.YoungAdult++
		}
	}

	return s
}

func (d *departmentAcc) finalize() DepartmentStats {
	stats := DepartmentStats{Name: d.name, Count: d.count}
	if len(d.ages) > 0 {
		stats.AverageAge = round1(meanInts(d.ages))
	}
	for _, age := range d.ages {
		if age >= 50 {
			stats.Over50Count++
		}
	}
	stats.Over50Pct = roundInt(Percent(stats.Over50Count, d.count))
	if len(d.salaries) > 0 {
		var sum int64
		for _, v := range d.salaries {
			sum += v
		}
		stats.AverageSalary = int64(math.Round(float64(sum) / float64(len(d.salaries))))
	}
	return stats
}

// Percent returns n/total as a percentage, or 0 when total is 0.
func Percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func meanInts(vals []int) float64 {
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
