package census

import (
	"fmt"
	"testing"

	"github.com/sells-group/workforce-intel/internal/model"
)

// dobForAge returns a DOB that is exactly age years old on the default
// reference date (2026-01-28).
func dobForAge(age int) string {
	return fmt.Sprintf("%d-01-01", 2026-age)
}

func employeesFromRows(t *testing.T, rows []model.Row) []Employee {
	t.Helper()
	return Profile(Normalize(rows), NewAgeCalculator(testRef(t)))
}
