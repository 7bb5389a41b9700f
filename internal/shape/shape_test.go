package shape

import (
	"strings"
	"testing"

	"github.com/careguide-ai/careguide/internal/triage"
)

func newTestShaper(t *testing.T) *Shaper {
	t.Helper()
	s, err := New(nil, "en")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func sampleVerdict() triage.Verdict {
	return triage.Verdict{
		RequestID:   "req-1",
		Band:        triage.BandEmergency,
		RawBand:     triage.BandHigh,
		RuleIDs:     []string{"cardiac_emergency_rule"},
		AdvisoryIDs: []string{"advisory.cardiac_emergency"},
		Evidence: triage.MatchedEvidence{
			Rules: []triage.RuleHit{{
				RuleID:     "cardiac_emergency_rule",
				Category:   "cardiac",
				MinBand:    triage.BandEmergency,
				AdvisoryID: "advisory.cardiac_emergency",
				Evidence:   "tags: chest_pain+shortness_of_breath",
			}},
		},
	}
}

func TestDisclaimerAlwaysPresent(t *testing.T) {
	s := newTestShaper(t)
	for _, opts := range []Options{
		{},
		{Locale: "es"},
		{Locale: "zz-unknown"},
		{Audience: AudienceClinician, Tone: ModeConcise},
	} {
		resp := s.Shape(sampleVerdict(), opts)
		if resp.Disclaimer == "" {
			t.Fatalf("opts %+v: disclaimer missing", opts)
		}
	}
}

func TestLocaleResolution(t *testing.T) {
	s := newTestShaper(t)
	cases := []struct {
		locale   string
		wantLang string
		wantFell bool
	}{
		{"", "en", false},
		{"en", "en", false},
		{"es", "es", false},
		{"fr", "fr", false},
		{"es-MX", "es", false},
		{"de", "en", true},
		{"not a locale", "en", true},
	}
	for _, tc := range cases {
		resp := s.Shape(sampleVerdict(), Options{Locale: tc.locale})
		if resp.Locale != tc.wantLang {
			t.Fatalf("locale %q resolved to %q, want %q", tc.locale, resp.Locale, tc.wantLang)
		}
		if resp.LocaleFell != tc.wantFell {
			t.Fatalf("locale %q fallback = %v, want %v", tc.locale, resp.LocaleFell, tc.wantFell)
		}
	}
}

func TestSpanishAdvisories(t *testing.T) {
	s := newTestShaper(t)
	resp := s.Shape(sampleVerdict(), Options{Locale: "es"})
	if len(resp.Advisories) != 1 {
		t.Fatalf("advisories = %v", resp.Advisories)
	}
	if !strings.Contains(resp.Advisories[0], "emergencia") {
		t.Fatalf("advisory not localized: %q", resp.Advisories[0])
	}
}

func TestAudienceRedaction(t *testing.T) {
	s := newTestShaper(t)

	patient := s.Shape(sampleVerdict(), Options{Audience: AudiencePatient})
	if len(patient.RuleIDs) != 0 {
		t.Fatalf("patient response leaked rule ids: %v", patient.RuleIDs)
	}
	for _, h := range patient.Evidence.Rules {
		if h.RuleID != "" || h.Evidence != "" {
			t.Fatalf("patient evidence not redacted: %+v", h)
		}
		if h.Category == "" {
			t.Fatalf("redaction dropped category: %+v", h)
		}
	}

	clinician := s.Shape(sampleVerdict(), Options{Audience: AudienceClinician})
	if len(clinician.RuleIDs) != 1 || clinician.RuleIDs[0] != "cardiac_emergency_rule" {
		t.Fatalf("clinician response lost rule ids: %v", clinician.RuleIDs)
	}
	if clinician.Evidence.Rules[0].RuleID == "" {
		t.Fatalf("clinician evidence redacted: %+v", clinician.Evidence.Rules[0])
	}
}

func TestMissingTranslationFailsOpen(t *testing.T) {
	bundles := BuiltinBundles()
	delete(bundles["fr"], "advisory.cardiac_emergency")
	s, err := New(bundles, "en")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp := s.Shape(sampleVerdict(), Options{Locale: "fr"})
	if len(resp.Advisories) != 1 || resp.Advisories[0] == "" {
		t.Fatalf("fallback advisory missing: %v", resp.Advisories)
	}
	if !strings.Contains(resp.Advisories[0], "emergency") {
		t.Fatalf("expected english fallback, got %q", resp.Advisories[0])
	}
	if !resp.LocaleFell {
		t.Fatal("expected fallback flag to be set")
	}
}

func TestNewRejectsMissingDefaultBundle(t *testing.T) {
	if _, err := New(map[string]Bundle{"en": {}}, "es"); err == nil {
		t.Fatal("expected error for missing default bundle")
	}
}

func TestToneProfiles(t *testing.T) {
	s := newTestShaper(t)
	resp := s.Shape(sampleVerdict(), Options{Tone: ModeChildFriendly})
	if resp.Tone.Mode != ModeChildFriendly || len(resp.Tone.Guidelines) == 0 {
		t.Fatalf("tone profile = %+v", resp.Tone)
	}
	if ParseMode("REASSURING") != ModeReassuring {
		t.Fatal("ParseMode should be case-insensitive")
	}
	if ParseMode("whisper") != ModeNeutral {
		t.Fatal("unknown mode should fall back to neutral")
	}
}

func TestScreenSentiment(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"I'm scared and my chest pain is back", SentimentStressed},
		{"I'm a bit confused about this", SentimentConcerned},
		{"thanks, that's fine", SentimentCalm},
		{"", SentimentCalm},
	}
	for _, tc := range cases {
		got, _ := ScreenSentiment(tc.text)
		if got != tc.want {
			t.Fatalf("ScreenSentiment(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
