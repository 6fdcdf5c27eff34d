package census

import (
	"strings"

	"github.com/sells-group/workforce-intel/internal/model"
)

// Source field aliases, in lookup order.
var (
	dobFields        = []string{"date_of_birth", "dob", "birth_date"}
	sexFields        = []string{"gender", "sex"}
	departmentFields = []string{"department"}
	tierFields       = []string{"coverage_tier"}
	smokerFields     = []string{"is_smoker"}
	salaryFields     = []string{"salary"}
	spouseFields     = []string{"spouse_dob"}
	childFields      = []string{"dep1_dob", "dep2_dob", "dep3_dob", "dep4_dob"}
)

// Normalize resolves field aliases once per row so aggregation never has to.
// Missing departments and tiers become model.UnknownBucket; child DOBs keep
// every non-blank slot, parseable or not.
func Normalize(rows []model.Row) []model.EmployeeRecord {
	out := make([]model.EmployeeRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, normalizeRow(row))
	}
	return out
}

func normalizeRow(row model.Row) model.EmployeeRecord {
	rec := model.EmployeeRecord{
		DateOfBirth:  row.String(dobFields...),
		Sex:          parseSex(row.String(sexFields...)),
		Department:   row.String(departmentFields...),
		CoverageTier: row.String(tierFields...),
		Smoker:       isSmoker(row),
		SpouseDOB:    row.String(spouseFields...),
	}
	if rec.Department == "" {
		rec.Department = model.UnknownBucket
	}
	if rec.CoverageTier == "" {
		rec.CoverageTier = model.UnknownBucket
	}
	if salary := row.Int(salaryFields...); salary > 0 {
		rec.Salary = salary
	}
	for _, f := range childFields {
		if dob := row.String(f); dob != "" {
			rec.ChildDOBs = append(rec.ChildDOBs, dob)
		}
	}
	return rec
}

func parseSex(s string) model.Sex {
	if s == "" {
		return model.SexUnknown
	}
	switch strings.ToUpper(s[:1]) {
	case "M":
		return model.SexMale
	case "F":
		return model.SexFemale
	default:
		return model.SexUnknown
	}
}

func isSmoker(row model.Row) bool {
	for _, f := range smokerFields {
		if v, ok := row[f].(bool); ok {
			return v
		}
	}
	return strings.EqualFold(row.String(smokerFields...), "yes")
}
