package triage

import "time"

// RuleHit records one safety rule that fired for a report.
type RuleHit struct {
	RuleID     string   `json:"rule_id"`
	Category   string   `json:"category"`
	MinBand    RiskBand `json:"min_band"`
	AdvisoryID string   `json:"advisory_id,omitempty"`
	Evidence   string   `json:"evidence,omitempty"`
}

// ReferenceMatch is one reference case whose symptom set overlapped the
// report above the similarity floor. Matches are informational only and
// never influence the verdict band.
type ReferenceMatch struct {
	CaseID     string   `json:"case_id"`
	Condition  string   `json:"condition"`
	Similarity float64  `json:"similarity"`
	Band       RiskBand `json:"band"` // historical band of the reference case
	SelfCare   []string `json:"self_care,omitempty"`
	Watchouts  []string `json:"watchouts,omitempty"`
}

// MatchedEvidence is the transparency payload attached to a verdict: which
// rules fired and which reference cases resembled the report.
type MatchedEvidence struct {
	Rules []RuleHit        `json:"rules,omitempty"`
	Cases []ReferenceMatch `json:"cases,omitempty"`
}

// Verdict is the finalized pipeline output for one request. It is immutable;
// the calling agent framework owns rendering and any further use.
//
// Band is always >= RawBand: the gate escalates, never lowers. An Emergency
// band always carries at least one rule id.
type Verdict struct {
	RequestID   string          `json:"request_id"`
	Band        RiskBand        `json:"band"`
	RawBand     RiskBand        `json:"raw_band"`
	Score       float64         `json:"score"`
	RuleIDs     []string        `json:"rule_ids"`
	AdvisoryIDs []string        `json:"advisory_ids,omitempty"`
	Evidence    MatchedEvidence `json:"evidence"`
	Report      SymptomReport   `json:"report"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Escalated reports whether the gate raised the band above the raw
// classifier output.
func (v Verdict) Escalated() bool {
	return v.Band > v.RawBand
}
