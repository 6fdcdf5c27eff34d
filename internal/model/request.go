package model

import "encoding/json"

// Format selects the shape of the generated report.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// Valid reports whether f names a supported report format. The zero value is
// valid and means FormatHTML.
func (f Format) Valid() bool {
	switch f {
	case "", FormatHTML, FormatJSON:
		return true
	}
	return false
}

// OrDefault returns f, or FormatHTML when f is empty.
func (f Format) OrDefault() Format {
	if f == "" {
		return FormatHTML
	}
	return f
}

// AnalyzeRequest is the inbound analysis payload. Only Census is required.
type AnalyzeRequest struct {
	Census         []Row    `json:"census_data"`
	Claims         []Row    `json:"claims_data,omitempty"`
	Pharmacy       []Row    `json:"pharmacy_data,omitempty"`
	LargeClaimants []Row    `json:"large_claimants,omitempty"`
	Utilization    []RawRow `json:"utilization_data,omitempty"`
	ClientInfo     Row      `json:"client_info,omitempty"`
	Format         Format   `json:"format,omitempty"`
	ReferenceDate  string   `json:"reference_date,omitempty"`
}

// RawRow keeps each value exactly as received so opaque metrics can be
// passed through without re-encoding.
type RawRow map[string]json.RawMessage

// String decodes key as a scalar and returns it as text ("" when absent).
func (r RawRow) String(key string) string {
	raw, ok := r[key]
	if !ok || len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return Row{key: v}.String(key)
}

// EmployeeRecord is the canonical shape of one census row after field-alias
// resolution. Blank strings mean the source field was absent.
type EmployeeRecord struct {
	DateOfBirth  string   `json:"date_of_birth"`
	Sex          Sex      `json:"sex"`
	Department   string   `json:"department"`
	CoverageTier string   `json:"coverage_tier"`
	Smoker       bool     `json:"smoker"`
	Salary       int64    `json:"salary"` // 0 when absent or not positive
	SpouseDOB    string   `json:"spouse_dob,omitempty"`
	ChildDOBs    []string `json:"child_dobs,omitempty"`
}

// Sex is the first letter of a free-text gender field, restricted to M/F.
type Sex string

const (
	SexUnknown Sex = ""
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
)

// UnknownBucket is the key used for a missing department or coverage tier.
const UnknownBucket = "Unknown"
