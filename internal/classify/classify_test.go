package classify

import (
	"testing"

	"github.com/careguide-ai/careguide/internal/triage"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClassifyBands(t *testing.T) {
	c := newTestClassifier(t)
	cases := []struct {
		name string
		rep  triage.SymptomReport
		want triage.RiskBand
	}{
		{"empty report is low", triage.SymptomReport{}, triage.BandLow},
		{"single minor symptom", triage.SymptomReport{Tags: []string{"cough"}}, triage.BandLow},
		{
			"cold cluster reaches moderate",
			triage.SymptomReport{Tags: []string{"fever", "cough", "sore_throat"}},
			triage.BandModerate,
		},
		{
			"cardiac pair reaches high on raw score",
			triage.SymptomReport{Tags: []string{"chest_pain", "shortness_of_breath"}},
			triage.BandHigh,
		},
		{
			"severe multiplier still caps at high",
			triage.SymptomReport{Tags: []string{"chest_pain", "shortness_of_breath"}, Severity: triage.SeveritySevere},
			triage.BandHigh,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			band, _ := c.Classify(tc.rep)
			if band != tc.want {
				t.Fatalf("band = %v, want %v", band, tc.want)
			}
		})
	}
}

func TestClassifyBoundaryRoundsUp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = map[string]float64{"fever": 4}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Score lands exactly on moderate_at; conservative rounding picks Moderate.
	band, score := c.Classify(triage.SymptomReport{Tags: []string{"fever"}})
	if score != 4 {
		t.Fatalf("score = %v, want exactly 4", score)
	}
	if band != triage.BandModerate {
		t.Fatalf("band = %v, want Moderate on boundary", band)
	}
}

func TestClassifyDeterminism(t *testing.T) {
	c := newTestClassifier(t)
	rep := triage.SymptomReport{
		Tags:          []string{"fever", "vomiting", "headache"},
		Age:           70,
		DurationHours: 96,
		Severity:      triage.SeveritySevere,
		Vitals:        map[string]float64{"temperature": 39.5},
	}
	first, fs := c.Classify(rep)
	for i := 0; i < 100; i++ {
		band, score := c.Classify(rep)
		if band != first || score != fs {
			t.Fatalf("run %d: got %v/%v, want %v/%v", i, band, score, first, fs)
		}
	}
}

func TestClassifyAgeAndDurationMultipliers(t *testing.T) {
	c := newTestClassifier(t)
	base := triage.SymptomReport{Tags: []string{"fever", "cough"}}
	baseScore := c.Score(base)

	child := base
	child.Age = 4
	if got := c.Score(child); got <= baseScore {
		t.Fatalf("child score %v should exceed base %v", got, baseScore)
	}

	long := base
	long.DurationHours = 100
	if got := c.Score(long); got <= baseScore {
		t.Fatalf("long-duration score %v should exceed base %v", got, baseScore)
	}

	adult := base
	adult.Age = 30
	if got := c.Score(adult); got != baseScore {
		t.Fatalf("adult age must not change score: %v != %v", got, baseScore)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted thresholds", func(c *Config) { c.HighAt = c.ModerateAt - 1 }},
		{"zero moderate", func(c *Config) { c.ModerateAt = 0 }},
		{"negative weight", func(c *Config) { c.Weights["fever"] = -1 }},
		{"zero severe multiplier", func(c *Config) { c.SevereFactor = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
