package gate

import (
	"fmt"

	"github.com/careguide-ai/careguide/internal/triage"
)

// Rule pairs a trigger predicate with an enforced effect. Rules are static
// configuration: loaded once, read-only for the process lifetime.
//
// The predicate is a conjunction: every RequiredTags entry must be present,
// and every set attribute constraint must hold. The effect is a forced
// minimum band plus an optional advisory message id.
type Rule struct {
	ID         string `yaml:"id" json:"id"`
	Category   string `yaml:"category" json:"category"`
	AdvisoryID string `yaml:"advisory_id,omitempty" json:"advisory_id,omitempty"`

	RequiredTags []string `yaml:"required_tags,omitempty" json:"required_tags,omitempty"`

	// Attribute constraints; zero values mean "not constrained".
	MinAge           int     `yaml:"min_age,omitempty" json:"min_age,omitempty"`
	MaxAge           int     `yaml:"max_age,omitempty" json:"max_age,omitempty"`
	MinDurationHours float64 `yaml:"min_duration_hours,omitempty" json:"min_duration_hours,omitempty"`
	Severity         string  `yaml:"severity,omitempty" json:"severity,omitempty"`

	// Vitals thresholds, all of which must hold.
	Vitals []VitalThreshold `yaml:"vitals,omitempty" json:"vitals,omitempty"`

	// MatchEmpty makes the rule an absence-of-data trigger: it fires only
	// for a fully empty report. Mutually exclusive with the other predicate
	// fields.
	MatchEmpty bool `yaml:"match_empty,omitempty" json:"match_empty,omitempty"`

	MinBand triage.RiskBand `yaml:"min_band" json:"min_band"`
}

// VitalThreshold constrains one vital sign reading. A rule referencing a
// vital the report does not carry simply does not match.
type VitalThreshold struct {
	Name string  `yaml:"name" json:"name"`
	Op   string  `yaml:"op" json:"op"` // "gte" or "lte"
	Val  float64 `yaml:"value" json:"value"`
}

func (r Rule) validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule without id")
	}
	if !r.MinBand.Valid() {
		return fmt.Errorf("rule %q: invalid min_band", r.ID)
	}
	if r.MatchEmpty && (len(r.RequiredTags) > 0 || r.MinAge > 0 || r.MaxAge > 0 ||
		r.MinDurationHours > 0 || r.Severity != "" || len(r.Vitals) > 0) {
		return fmt.Errorf("rule %q: match_empty excludes all other predicate fields", r.ID)
	}
	if !r.MatchEmpty && len(r.RequiredTags) == 0 && r.MinAge == 0 && r.MaxAge == 0 &&
		r.MinDurationHours == 0 && r.Severity == "" && len(r.Vitals) == 0 {
		return fmt.Errorf("rule %q: empty predicate would fire on every report", r.ID)
	}
	if r.MinAge > 0 && r.MaxAge > 0 && r.MinAge > r.MaxAge {
		return fmt.Errorf("rule %q: min_age > max_age", r.ID)
	}
	for _, vt := range r.Vitals {
		if vt.Name == "" {
			return fmt.Errorf("rule %q: vital threshold without name", r.ID)
		}
		if vt.Op != "gte" && vt.Op != "lte" {
			return fmt.Errorf("rule %q: vital op %q (want gte or lte)", r.ID, vt.Op)
		}
	}
	return nil
}

// matches evaluates the predicate against a report. Pure; no side effects.
func (r Rule) matches(rep triage.SymptomReport) bool {
	if r.MatchEmpty {
		return rep.Empty()
	}
	for _, tag := range r.RequiredTags {
		if !rep.HasTag(tag) {
			return false
		}
	}
	if r.MinAge > 0 && (rep.Age == 0 || rep.Age < r.MinAge) {
		return false
	}
	if r.MaxAge > 0 && (rep.Age == 0 || rep.Age > r.MaxAge) {
		return false
	}
	if r.MinDurationHours > 0 && rep.DurationHours < r.MinDurationHours {
		return false
	}
	if r.Severity != "" && string(rep.Severity) != r.Severity {
		return false
	}
	for _, vt := range r.Vitals {
		v, ok := rep.Vital(vt.Name)
		if !ok {
			return false
		}
		switch vt.Op {
		case "gte":
			if v < vt.Val {
				return false
			}
		case "lte":
			if v > vt.Val {
				return false
			}
		}
	}
	return true
}

// BuiltinRules is the compiled-in safety rule set. A config-supplied rule
// table replaces it wholesale.
func BuiltinRules() []Rule {
	return []Rule{
		{
			ID:           "cardiac_emergency_rule",
			Category:     "cardiac",
			RequiredTags: []string{"chest_pain", "shortness_of_breath"},
			MinBand:      triage.BandEmergency,
			AdvisoryID:   "advisory.cardiac_emergency",
		},
		{
			ID:           "severe_bleeding_rule",
			Category:     "trauma",
			RequiredTags: []string{"severe_bleeding"},
			MinBand:      triage.BandEmergency,
			AdvisoryID:   "advisory.severe_bleeding",
		},
		{
			ID:           "loss_of_consciousness_rule",
			Category:     "neurological",
			RequiredTags: []string{"fainting"},
			MinBand:      triage.BandEmergency,
			AdvisoryID:   "advisory.loss_of_consciousness",
		},
		{
			ID:           "stroke_signs_speech_rule",
			Category:     "neurological",
			RequiredTags: []string{"slurred_speech"},
			MinBand:      triage.BandEmergency,
			AdvisoryID:   "advisory.stroke_signs",
		},
		{
			ID:           "stroke_signs_face_rule",
			Category:     "neurological",
			RequiredTags: []string{"face_droop"},
			MinBand:      triage.BandEmergency,
			AdvisoryID:   "advisory.stroke_signs",
		},
		{
			ID:           "stroke_signs_weakness_rule",
			Category:     "neurological",
			RequiredTags: []string{"one_sided_weakness"},
			MinBand:      triage.BandEmergency,
			AdvisoryID:   "advisory.stroke_signs",
		},
		{
			ID:           "infant_fever_rule",
			Category:     "pediatric",
			RequiredTags: []string{"fever"},
			MaxAge:       1,
			MinBand:      triage.BandHigh,
			AdvisoryID:   "advisory.infant_fever",
		},
		{
			ID:       "very_high_fever_rule",
			Category: "infection",
			Vitals:   []VitalThreshold{{Name: "temperature", Op: "gte", Val: 40.0}},
			MinBand:  triage.BandHigh,
			AdvisoryID: "advisory.very_high_fever",
		},
		{
			ID:           "persistent_vomiting_rule",
			Category:     "gastrointestinal",
			RequiredTags: []string{"vomiting"},
			MinDurationHours: 48,
			MinBand:      triage.BandModerate,
			AdvisoryID:   "advisory.persistent_vomiting",
		},
		{
			ID:           "breathing_difficulty_rule",
			Category:     "respiratory",
			RequiredTags: []string{"shortness_of_breath", "wheezing"},
			MinBand:      triage.BandHigh,
			AdvisoryID:   "advisory.breathing_difficulty",
		},
	}
}
