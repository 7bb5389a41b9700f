package triage

import "sort"

// Severity is the self-reported intensity hint carried on a report.
// It modulates the classifier score but never forces a band on its own.
type Severity string

const (
	SeverityUnknown  Severity = ""
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// SymptomReport is the canonical, normalized view of one symptom intake.
// Tags come from the closed vocabulary only; anything the normalizer could
// not map is preserved in Unmatched for audit and rule-set curation, and is
// invisible to the classifier and the gate.
//
// Reports are value types and are treated as immutable once the normalizer
// returns them.
type SymptomReport struct {
	Tags          []string           `json:"tags"`
	Severity      Severity           `json:"severity,omitempty"`
	Age           int                `json:"age,omitempty"`            // years, 0 = unknown
	DurationHours float64            `json:"duration_hours,omitempty"` // 0 = unknown
	Vitals        map[string]float64 `json:"vitals,omitempty"`
	Unmatched     []string           `json:"unmatched,omitempty"`
}

// Empty reports whether the report carries no tags and no attributes at all.
func (r SymptomReport) Empty() bool {
	return len(r.Tags) == 0 &&
		r.Severity == SeverityUnknown &&
		r.Age == 0 &&
		r.DurationHours == 0 &&
		len(r.Vitals) == 0
}

// HasTag reports whether tag is present. Tags are kept sorted, so this is a
// binary search.
func (r SymptomReport) HasTag(tag string) bool {
	i := sort.SearchStrings(r.Tags, tag)
	return i < len(r.Tags) && r.Tags[i] == tag
}

// Vital returns the named vital sign reading, if recorded.
func (r SymptomReport) Vital(name string) (float64, bool) {
	v, ok := r.Vitals[name]
	return v, ok
}
