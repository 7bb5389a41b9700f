package normalize

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/careguide-ai/careguide/internal/triage"
	"github.com/careguide-ai/careguide/internal/vocab"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return New(vocab.Builtin())
}

func TestNormalizeFreeText(t *testing.T) {
	n := newTestNormalizer(t)
	cases := []struct {
		name     string
		text     string
		wantTags []string
		wantSev  triage.Severity
		wantDur  float64
	}{
		{
			name:     "plain symptoms",
			text:     "I have a fever and a bad cough",
			wantTags: []string{"cough", "fever"},
		},
		{
			name:     "synonym resolution",
			text:     "feeling short of breath and some chest pain",
			wantTags: []string{"chest_pain", "shortness_of_breath"},
		},
		{
			name:     "severity and duration",
			text:     "severe headache for 3 days",
			wantTags: []string{"headache"},
			wantSev:  triage.SeveritySevere,
			wantDur:  72,
		},
		{
			name:     "mild marker",
			text:     "a slight sore throat since 6 hours",
			wantTags: []string{"sore_throat"},
			wantSev:  triage.SeverityMild,
			wantDur:  6,
		},
		{
			name:     "word boundary on short synonyms",
			text:     "sobbing all night with a headache",
			wantTags: []string{"headache"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep, err := n.Normalize(Intake{Text: tc.text})
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if diff := cmp.Diff(tc.wantTags, rep.Tags); diff != "" {
				t.Fatalf("tags mismatch (-want +got):\n%s", diff)
			}
			if rep.Severity != tc.wantSev {
				t.Fatalf("severity = %q, want %q", rep.Severity, tc.wantSev)
			}
			if rep.DurationHours != tc.wantDur {
				t.Fatalf("duration = %v, want %v", rep.DurationHours, tc.wantDur)
			}
		})
	}
}

func TestNormalizeStructuredTags(t *testing.T) {
	n := newTestNormalizer(t)
	rep, err := n.Normalize(Intake{
		Tags: []string{"fever", "dyspnea", "moon fever pox"},
		Age:  70,
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if diff := cmp.Diff([]string{"fever", "shortness_of_breath"}, rep.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"moon fever pox"}, rep.Unmatched); diff != "" {
		t.Fatalf("unmatched mismatch (-want +got):\n%s", diff)
	}
	if rep.Age != 70 {
		t.Fatalf("age = %d, want 70", rep.Age)
	}
}

func TestNormalizeUnknownTagsProceedWhenAnyRecognized(t *testing.T) {
	n := newTestNormalizer(t)
	rep, err := n.Normalize(Intake{Tags: []string{"gleeb", "cough"}})
	if err != nil {
		t.Fatalf("expected success with one recognized tag, got %v", err)
	}
	if len(rep.Tags) != 1 || rep.Tags[0] != "cough" {
		t.Fatalf("tags = %v, want [cough]", rep.Tags)
	}
	if len(rep.Unmatched) != 1 {
		t.Fatalf("unmatched = %v, want one entry", rep.Unmatched)
	}
}

func TestNormalizeAllUnrecognized(t *testing.T) {
	n := newTestNormalizer(t)
	_, err := n.Normalize(Intake{Tags: []string{"gleeb", "florp"}})
	var uie *triage.UnrecognizedInputError
	if !errors.As(err, &uie) {
		t.Fatalf("expected UnrecognizedInputError, got %v", err)
	}
	if len(uie.Unmatched) != 2 {
		t.Fatalf("unmatched = %v, want both terms", uie.Unmatched)
	}
}

func TestNormalizeEmptyIntakeIsValid(t *testing.T) {
	n := newTestNormalizer(t)
	rep, err := n.Normalize(Intake{})
	if err != nil {
		t.Fatalf("empty intake must be valid, got %v", err)
	}
	if !rep.Empty() {
		t.Fatalf("expected empty report, got %+v", rep)
	}
}

func TestNormalizeStructuredOverridesText(t *testing.T) {
	n := newTestNormalizer(t)
	rep, err := n.Normalize(Intake{
		Text:          "mild cough for 2 hours",
		DurationHours: 48,
		Severity:      "severe",
		Vitals:        map[string]float64{"Temperature": 39.2},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rep.DurationHours != 48 {
		t.Fatalf("duration = %v, want structured 48", rep.DurationHours)
	}
	if rep.Severity != triage.SeveritySevere {
		t.Fatalf("severity = %q, want severe", rep.Severity)
	}
	if v, ok := rep.Vital("temperature"); !ok || v != 39.2 {
		t.Fatalf("vital temperature = %v, %v", v, ok)
	}
}
