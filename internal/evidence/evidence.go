// Package evidence assembles the transparency payload for a verdict: the
// fired rules plus reference cases whose symptom sets resemble the report.
// The composer is strictly informational; nothing here can move the verdict
// band, which keeps escalation auditable and immune to drift in the
// reference table.
package evidence

import (
	"fmt"
	"sort"

	"github.com/careguide-ai/careguide/internal/triage"
)

// ReferenceCase is one static lookup record with its historical risk band.
type ReferenceCase struct {
	ID        string          `yaml:"id" json:"id"`
	Condition string          `yaml:"condition" json:"condition"`
	Tags      []string        `yaml:"tags" json:"tags"`
	Band      triage.RiskBand `yaml:"band" json:"band"`
	SelfCare  []string        `yaml:"self_care,omitempty" json:"self_care,omitempty"`
	Watchouts []string        `yaml:"watchouts,omitempty" json:"watchouts,omitempty"`
}

const (
	DefaultTopK            = 3
	DefaultSimilarityFloor = 0.15
)

// Composer matches reports against the reference case table. Immutable after
// New; safe for concurrent readers.
type Composer struct {
	cases []ReferenceCase
	topK  int
	floor float64
}

// New validates the reference table and builds a composer. topK <= 0 and
// floor <= 0 select the defaults.
func New(cases []ReferenceCase, topK int, floor float64) (*Composer, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if floor <= 0 {
		floor = DefaultSimilarityFloor
	}
	seen := make(map[string]struct{}, len(cases))
	owned := make([]ReferenceCase, len(cases))
	copy(owned, cases)
	for i, c := range owned {
		if c.ID == "" {
			return nil, &triage.ConfigError{Source: "reference_cases", Err: fmt.Errorf("case %d has no id", i)}
		}
		if _, dup := seen[c.ID]; dup {
			return nil, &triage.ConfigError{Source: "reference_cases", Err: fmt.Errorf("duplicate case id %q", c.ID)}
		}
		seen[c.ID] = struct{}{}
		if len(c.Tags) == 0 {
			return nil, &triage.ConfigError{Source: "reference_cases", Err: fmt.Errorf("case %q has no tags", c.ID)}
		}
		if !c.Band.Valid() {
			return nil, &triage.ConfigError{Source: "reference_cases", Err: fmt.Errorf("case %q has invalid band", c.ID)}
		}
	}
	return &Composer{cases: owned, topK: topK, floor: floor}, nil
}

// Compose returns the evidence payload for a report: the gate hits passed
// through untouched, and the top-k reference cases above the similarity
// floor. Deterministic: ties are broken by case id.
func (c *Composer) Compose(rep triage.SymptomReport, hits []triage.RuleHit) triage.MatchedEvidence {
	ev := triage.MatchedEvidence{Rules: hits}
	if len(rep.Tags) == 0 {
		return ev
	}

	var matches []triage.ReferenceMatch
	for _, rc := range c.cases {
		sim := jaccard(rep.Tags, rc.Tags)
		if sim < c.floor {
			continue
		}
		matches = append(matches, triage.ReferenceMatch{
			CaseID:     rc.ID,
			Condition:  rc.Condition,
			Similarity: sim,
			Band:       rc.Band,
			SelfCare:   rc.SelfCare,
			Watchouts:  rc.Watchouts,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].CaseID < matches[j].CaseID
	})
	if len(matches) > c.topK {
		matches = matches[:c.topK]
	}
	ev.Cases = matches
	return ev
}

// jaccard computes |a ∩ b| / |a ∪ b| over two tag sets. Inputs may contain
// duplicates; they are treated as sets.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]uint8, len(a)+len(b))
	for _, t := range a {
		set[t] |= 1
	}
	for _, t := range b {
		set[t] |= 2
	}
	var inter, union int
	for _, bits := range set {
		union++
		if bits == 3 {
			inter++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// BuiltinCases is the compiled-in reference table, kept deliberately small.
func BuiltinCases() []ReferenceCase {
	return []ReferenceCase{
		{
			ID: "case_common_cold", Condition: "common cold",
			Tags: []string{"runny_nose", "stuffy_nose", "sneezing", "sore_throat", "cough"},
			Band: triage.BandLow,
			SelfCare:  []string{"rest", "fluids", "saline rinse"},
			Watchouts: []string{"fever above 39C", "symptoms beyond 10 days"},
		},
		{
			ID: "case_seasonal_flu", Condition: "seasonal influenza",
			Tags: []string{"fever", "cough", "fatigue", "headache"},
			Band: triage.BandModerate,
			SelfCare:  []string{"rest", "fluids", "fever control"},
			Watchouts: []string{"trouble breathing", "confusion", "dehydration"},
		},
		{
			ID: "case_gastroenteritis", Condition: "gastroenteritis",
			Tags: []string{"nausea", "vomiting", "diarrhea", "abdominal_cramps"},
			Band: triage.BandModerate,
			SelfCare:  []string{"small sips of fluid", "oral rehydration"},
			Watchouts: []string{"blood in stool", "no urination", "persistent vomiting"},
		},
		{
			ID: "case_allergic_rash", Condition: "allergic skin reaction",
			Tags: []string{"rash", "itchy_rash"},
			Band: triage.BandLow,
			SelfCare:  []string{"avoid trigger", "cool compress"},
			Watchouts: []string{"swelling of lips or tongue", "trouble breathing"},
		},
		{
			ID: "case_acute_coronary", Condition: "acute coronary syndrome",
			Tags: []string{"chest_pain", "shortness_of_breath", "nausea"},
			Band: triage.BandEmergency,
			Watchouts: []string{"call emergency services immediately"},
		},
		{
			ID: "case_asthma_flare", Condition: "asthma exacerbation",
			Tags: []string{"wheezing", "shortness_of_breath", "cough"},
			Band: triage.BandHigh,
			SelfCare:  []string{"use reliever inhaler as prescribed"},
			Watchouts: []string{"lips turning blue", "cannot speak full sentences"},
		},
		{
			ID: "case_dry_mouth", Condition: "xerostomia",
			Tags: []string{"dry_mouth", "thirst", "sticky_saliva", "bad_breath", "cracked_lips"},
			Band: triage.BandLow,
			SelfCare:  []string{"sip water often", "sugar-free gum"},
			Watchouts: []string{"difficulty swallowing", "signs of dehydration"},
		},
	}
}
