package claims

import (
	"encoding/json"
	"strings"

	"github.com/sells-group/workforce-intel/internal/model"
)

// Utilization holds named metrics copied verbatim from the source rows.
// Values are opaque: a nil RawMessage means the metric was not supplied.
type Utilization struct {
	MedicalPMPM             json.RawMessage `json:"medical_pmpm"`
	PharmacyPMPM            json.RawMessage `json:"pharmacy_pmpm"`
	GenericRate             json.RawMessage `json:"generic_rate"`
	SpecialtyRxPct          json.RawMessage `json:"specialty_rx_pct"`
	ERPer1000               json.RawMessage `json:"er_per_1000"`
	ColorectalScreeningRate json.RawMessage `json:"colorectal_screening_rate"`
	BreastScreeningRate     json.RawMessage `json:"breast_screening_rate"`
	MentalHealthPer1000     json.RawMessage `json:"mental_health_per_1000"`
	ChronicManagementRate   json.RawMessage `json:"chronic_management_rate"`
}

type metricRule struct {
	needle string
	field  func(*Utilization) *json.RawMessage
}

var metricRules = []metricRule{
	{"medical pmpm", func(u *Utilization) *json.RawMessage { return &u.MedicalPMPM }},
	{"pharmacy pmpm", func(u *Utilization) *json.RawMessage { return &u.PharmacyPMPM }},
	{"generic dispensing", func(u *Utilization) *json.RawMessage { return &u.GenericRate }},
	{"specialty rx as %", func(u *Utilization) *json.RawMessage { return &u.SpecialtyRxPct }},
	{"er visits per", func(u *Utilization) *json.RawMessage { return &u.ERPer1000 }},
	{"colorectal cancer screening", func(u *Utilization) *json.RawMessage { return &u.ColorectalScreeningRate }},
	{"breast cancer screening", func(u *Utilization) *json.RawMessage { return &u.BreastScreeningRate }},
	{"mental health utilization", func(u *Utilization) *json.RawMessage { return &u.MentalHealthPer1000 }},
	{"chronic condition management", func(u *Utilization) *json.RawMessage { return &u.ChronicManagementRate }},
}

// MatchUtilization copies each row's current_period into every metric whose
// name fragment appears in metric_name. Later rows overwrite earlier ones.
func MatchUtilization(rows []model.RawRow) Utilization {
	var u Utilization
	for _, row := range rows {
		name := strings.ToLower(row.String("metric_name"))
		if name == "" {
			continue
		}
		value := row["current_period"]
		for _, rule := range metricRules {
			if strings.Contains(name, rule.needle) {
				*rule.field(&u) = value
			}
		}
	}
	return u
}

// Display renders an opaque value for text output: JSON strings unquoted,
// anything else as its raw JSON, and "" when absent or null.
func Display(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}
