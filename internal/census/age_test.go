package census

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRef(t *testing.T) time.Time {
	t.Helper()
	ref, err := ParseReferenceDate("")
	require.NoError(t, err)
	return ref
}

func TestParseReferenceDate(t *testing.T) {
	t.Parallel()

	ref, err := ParseReferenceDate("")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC), ref)

	ref, err = ParseReferenceDate(" 2025-06-30 ")
	require.NoError(t, err)
	assert.Equal(t, 2025, ref.Year())

	_, err = ParseReferenceDate("06/30/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse reference date")
}

func TestAgeAt(t *testing.T) {
	t.Parallel()
	ref := testRef(t)

	tests := []struct {
		name  string
		dob   string
		want  int
		known bool
	}{
		{"birthday not yet reached", "1980-02-01", 45, true},
		{"birthday on reference date", "1980-01-28", 46, true},
		{"birthday just passed", "1980-01-27", 46, true},
		{"us slash format", "02/01/1980", 45, true},
		{"long month format", "February 1, 1980", 45, true},
		{"surrounding whitespace", "  1990-06-15  ", 35, true},
		{"empty", "", 0, false},
		{"whitespace", "   ", 0, false},
		{"garbage", "not a date", 0, false},
		{"newborn is zero", "2025-12-01", 0, false},
		{"future date", "2027-01-01", 0, false},
		{"centenarian", "1925-01-01", 0, false},
		{"ninety-nine", "1926-01-01", 0, false},
		{"ninety-eight", "1927-01-01", 99, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, known := AgeAt(tt.dob, ref)
			assert.Equal(t, tt.known, known)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgeAt_AlwaysInRange(t *testing.T) {
	t.Parallel()
	ref := testRef(t)

	for year := 1900; year <= 2030; year++ {
		for _, md := range []string{"01-01", "01-28", "01-29", "06-15", "12-31"} {
			age, known := AgeAt(fmt.Sprintf("%d-%s", year, md), ref)
			if known {
				assert.Greater(t, age, 0)
				assert.Less(t, age, 100)
			} else {
				assert.Equal(t, 0, age)
			}
		}
	}
}

func TestAgeCalculator_Memoizes(t *testing.T) {
	t.Parallel()
	calc := NewAgeCalculator(testRef(t))

	age, ok := calc.Age("1980-02-01")
	require.True(t, ok)
	assert.Equal(t, 45, age)
	assert.Len(t, calc.cache, 1)

	again, ok := calc.Age("1980-02-01")
	require.True(t, ok)
	assert.Equal(t, age, again)
	assert.Len(t, calc.cache, 1)

	_, ok = calc.Age("bogus")
	assert.False(t, ok)
	assert.Len(t, calc.cache, 2)
	assert.Equal(t, testRef(t), calc.Reference())
}
