// Package classify maps a normalized SymptomReport to a raw RiskBand through
// a deterministic scoring table: per-tag weights, attribute multipliers, and
// fixed band thresholds. No randomness and no external calls; identical input
// always yields an identical band, which auditability requires.
package classify

import (
	"fmt"
	"math"

	"github.com/careguide-ai/careguide/internal/triage"
)

// Config is the scoring table. All fields are static, loaded once.
type Config struct {
	// Weights carries the per-tag contribution. Tags absent from the map
	// score DefaultWeight.
	Weights       map[string]float64 `yaml:"weights"`
	DefaultWeight float64            `yaml:"default_weight"`

	// Multipliers applied to the summed tag score.
	ChildMaxAge     int     `yaml:"child_max_age"`     // ages <= this count as child
	OlderMinAge     int     `yaml:"older_min_age"`     // ages >= this count as older adult
	AgeMultiplier   float64 `yaml:"age_multiplier"`    // applied for child / older adult
	LongDurationH   float64 `yaml:"long_duration_hours"`
	DurationFactor  float64 `yaml:"duration_multiplier"` // applied when duration exceeds LongDurationH
	SevereFactor    float64 `yaml:"severe_multiplier"`
	MildFactor      float64 `yaml:"mild_multiplier"`

	// Thresholds select the band from the final score. Boundary hits round
	// to the higher band (conservative default). The score alone never
	// reaches Emergency; that band is reserved for explicit rule triggers.
	ModerateAt float64 `yaml:"moderate_at"`
	HighAt     float64 `yaml:"high_at"`
}

// DefaultConfig returns the built-in scoring table. The weights lean
// conservative: anything that can signal a cardiac, stroke, or airway
// problem is heavy enough that one or two such tags clear the high band.
func DefaultConfig() Config {
	return Config{
		Weights: map[string]float64{
			"chest_pain":            4,
			"shortness_of_breath":   4,
			"severe_bleeding":       5,
			"fainting":              4,
			"slurred_speech":        4,
			"face_droop":            4,
			"one_sided_weakness":    4,
			"difficulty_swallowing": 3,
			"wheezing":              2,
			"vomiting":              2,
			"diarrhea":              2,
			"abdominal_pain":        2,
			"abdominal_cramps":      2,
			"fever":                 2,
			"headache":              2,
			"dizziness":             2,
			"rash":                  1,
			"itchy_rash":            1,
			"cough":                 1,
			"sore_throat":           1,
			"runny_nose":            1,
			"stuffy_nose":           1,
			"sneezing":              1,
			"fatigue":               1,
			"nausea":                1,
			"dry_mouth":             1,
			"thirst":                1,
			"sticky_saliva":         1,
			"bad_breath":            1,
			"cracked_lips":          1,
		},
		DefaultWeight:  1,
		ChildMaxAge:    11,
		OlderMinAge:    65,
		AgeMultiplier:  1.25,
		LongDurationH:  72,
		DurationFactor: 1.25,
		SevereFactor:   1.5,
		MildFactor:     0.75,
		ModerateAt:     4,
		HighAt:         8,
	}
}

// Validate checks the table for internal consistency.
func (c Config) Validate() error {
	if c.ModerateAt <= 0 || c.HighAt <= c.ModerateAt {
		return fmt.Errorf("thresholds must satisfy 0 < moderate_at < high_at (got %v/%v)",
			c.ModerateAt, c.HighAt)
	}
	if c.DefaultWeight < 0 {
		return fmt.Errorf("default_weight must be >= 0")
	}
	for tag, w := range c.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight for %q must be a finite non-negative number", tag)
		}
	}
	for name, m := range map[string]float64{
		"age_multiplier":      c.AgeMultiplier,
		"duration_multiplier": c.DurationFactor,
		"severe_multiplier":   c.SevereFactor,
		"mild_multiplier":     c.MildFactor,
	} {
		if m <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	return nil
}

// Classifier scores reports against a fixed table.
type Classifier struct {
	cfg Config
}

// New builds a classifier, validating the table first.
func New(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &triage.ConfigError{Source: "classifier", Err: err}
	}
	return &Classifier{cfg: cfg}, nil
}

// Score returns the summed, multiplied score for a report.
func (c *Classifier) Score(r triage.SymptomReport) float64 {
	var sum float64
	for _, tag := range r.Tags {
		if w, ok := c.cfg.Weights[tag]; ok {
			sum += w
		} else {
			sum += c.cfg.DefaultWeight
		}
	}
	if sum == 0 {
		return 0
	}
	if r.Age > 0 && (r.Age <= c.cfg.ChildMaxAge || r.Age >= c.cfg.OlderMinAge) {
		sum *= c.cfg.AgeMultiplier
	}
	if r.DurationHours > c.cfg.LongDurationH {
		sum *= c.cfg.DurationFactor
	}
	switch r.Severity {
	case triage.SeveritySevere:
		sum *= c.cfg.SevereFactor
	case triage.SeverityMild:
		sum *= c.cfg.MildFactor
	}
	return sum
}

// Classify returns the raw band for a report along with its score. A score
// landing exactly on a threshold selects the higher band. The result tops out
// at High: an Emergency verdict always needs a matched rule to explain it, so
// the scorer never produces one on its own.
func (c *Classifier) Classify(r triage.SymptomReport) (triage.RiskBand, float64) {
	score := c.Score(r)
	switch {
	case score >= c.cfg.HighAt:
		return triage.BandHigh, score
	case score >= c.cfg.ModerateAt:
		return triage.BandModerate, score
	default:
		return triage.BandLow, score
	}
}
