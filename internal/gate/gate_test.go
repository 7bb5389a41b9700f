package gate

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/careguide-ai/careguide/internal/triage"
)

func newTestGate(t *testing.T, rules []Rule) *Gate {
	t.Helper()
	g, err := New(rules)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestCardiacPairForcesEmergency(t *testing.T) {
	g := newTestGate(t, BuiltinRules())
	rep := triage.SymptomReport{Tags: []string{"chest_pain", "shortness_of_breath"}}

	// Raw band below Emergency; the gate must escalate.
	res := g.Apply(rep, triage.BandModerate)
	if res.Band != triage.BandEmergency {
		t.Fatalf("band = %v, want Emergency", res.Band)
	}
	if res.RawBand != triage.BandModerate {
		t.Fatalf("raw band = %v, want Moderate preserved", res.RawBand)
	}
	if !hasHit(res.Hits, "cardiac_emergency_rule") {
		t.Fatalf("expected cardiac_emergency_rule hit, got %+v", res.Hits)
	}
}

func TestGateNeverLowers(t *testing.T) {
	g := newTestGate(t, BuiltinRules())
	reports := []triage.SymptomReport{
		{},
		{Tags: []string{"cough"}},
		{Tags: []string{"chest_pain", "shortness_of_breath"}},
		{Tags: []string{"fever"}, Age: 1},
		{Tags: []string{"vomiting"}, DurationHours: 72},
	}
	bands := []triage.RiskBand{triage.BandLow, triage.BandModerate, triage.BandHigh, triage.BandEmergency}
	for _, rep := range reports {
		for _, raw := range bands {
			res := g.Apply(rep, raw)
			if res.Band < raw {
				t.Fatalf("gate lowered band for %+v: raw %v -> %v", rep, raw, res.Band)
			}
		}
	}
}

func TestOrderIndependence(t *testing.T) {
	rules := BuiltinRules()
	rep := triage.SymptomReport{
		Tags:          []string{"chest_pain", "shortness_of_breath", "wheezing", "vomiting"},
		DurationHours: 72,
		Vitals:        map[string]float64{"temperature": 40.5},
	}
	base := newTestGate(t, rules).Apply(rep, triage.BandLow)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := make([]Rule, len(rules))
		copy(shuffled, rules)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := newTestGate(t, shuffled).Apply(rep, triage.BandLow)
		if got.Band != base.Band {
			t.Fatalf("shuffle %d changed band: %v != %v", i, got.Band, base.Band)
		}
		if !reflect.DeepEqual(got.Hits, base.Hits) {
			t.Fatalf("shuffle %d changed hit set:\n%+v\n%+v", i, got.Hits, base.Hits)
		}
	}
}

func TestEmptyReportMatchesNothingByDefault(t *testing.T) {
	g := newTestGate(t, BuiltinRules())
	res := g.Apply(triage.SymptomReport{}, triage.BandLow)
	if res.Band != triage.BandLow || len(res.Hits) != 0 {
		t.Fatalf("empty report: band %v hits %v, want Low and none", res.Band, res.Hits)
	}
}

func TestMatchEmptyRule(t *testing.T) {
	rules := append(BuiltinRules(), Rule{
		ID:         "no_data_rule",
		Category:   "intake",
		MatchEmpty: true,
		MinBand:    triage.BandModerate,
		AdvisoryID: "advisory.need_more_detail",
	})
	g := newTestGate(t, rules)

	res := g.Apply(triage.SymptomReport{}, triage.BandLow)
	if res.Band != triage.BandModerate || !hasHit(res.Hits, "no_data_rule") {
		t.Fatalf("absence-of-data rule did not fire: %+v", res)
	}

	// A non-empty report must not trigger it.
	res = g.Apply(triage.SymptomReport{Tags: []string{"cough"}}, triage.BandLow)
	if hasHit(res.Hits, "no_data_rule") {
		t.Fatalf("no_data_rule fired on non-empty report")
	}
}

func TestAttributePredicates(t *testing.T) {
	g := newTestGate(t, BuiltinRules())

	cases := []struct {
		name   string
		rep    triage.SymptomReport
		rule   string
		fired  bool
	}{
		{"infant fever fires", triage.SymptomReport{Tags: []string{"fever"}, Age: 1}, "infant_fever_rule", true},
		{"adult fever does not", triage.SymptomReport{Tags: []string{"fever"}, Age: 30}, "infant_fever_rule", false},
		{"unknown age does not", triage.SymptomReport{Tags: []string{"fever"}}, "infant_fever_rule", false},
		{"very high temperature fires", triage.SymptomReport{Tags: []string{"fever"}, Vitals: map[string]float64{"temperature": 40.2}}, "very_high_fever_rule", true},
		{"missing vital does not", triage.SymptomReport{Tags: []string{"fever"}}, "very_high_fever_rule", false},
		{"short vomiting does not", triage.SymptomReport{Tags: []string{"vomiting"}, DurationHours: 12}, "persistent_vomiting_rule", false},
		{"persistent vomiting fires", triage.SymptomReport{Tags: []string{"vomiting"}, DurationHours: 48}, "persistent_vomiting_rule", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := g.Apply(tc.rep, triage.BandLow)
			if hasHit(res.Hits, tc.rule) != tc.fired {
				t.Fatalf("rule %s fired=%v, want %v (hits %+v)", tc.rule, !tc.fired, tc.fired, res.Hits)
			}
		})
	}
}

func TestNewRejectsBadRules(t *testing.T) {
	cases := []struct {
		name  string
		rules []Rule
	}{
		{"missing id", []Rule{{Category: "x", RequiredTags: []string{"fever"}, MinBand: triage.BandHigh}}},
		{"duplicate id", []Rule{
			{ID: "a", RequiredTags: []string{"fever"}, MinBand: triage.BandHigh},
			{ID: "a", RequiredTags: []string{"cough"}, MinBand: triage.BandHigh},
		}},
		{"empty predicate", []Rule{{ID: "a", MinBand: triage.BandHigh}}},
		{"bad vital op", []Rule{{ID: "a", Vitals: []VitalThreshold{{Name: "temperature", Op: "eq", Val: 1}}, MinBand: triage.BandHigh}}},
		{"match_empty with tags", []Rule{{ID: "a", MatchEmpty: true, RequiredTags: []string{"fever"}, MinBand: triage.BandHigh}}},
		{"invalid band", []Rule{{ID: "a", RequiredTags: []string{"fever"}, MinBand: triage.RiskBand(9)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.rules); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func hasHit(hits []triage.RuleHit, id string) bool {
	for _, h := range hits {
		if h.RuleID == id {
			return true
		}
	}
	return false
}
