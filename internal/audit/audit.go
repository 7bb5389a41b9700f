// Package audit records one structured event per triage decision. Events are
// delivered off the request path through a buffered emitter; a full queue
// drops rather than blocks.
package audit

import (
	"time"

	"github.com/careguide-ai/careguide/internal/triage"
)

// Event is one audit record. It captures the decision trail, never the raw
// free-text input.
type Event struct {
	Timestamp      time.Time `json:"ts"`
	RequestID      string    `json:"request_id"`
	Band           string    `json:"band"`
	RawBand        string    `json:"raw_band"`
	RuleIDs        []string  `json:"rule_ids,omitempty"`
	UnmatchedTerms []string  `json:"unmatched_terms,omitempty"`
	LocaleFallback bool      `json:"locale_fallback,omitempty"`
	LatencyMs      float64   `json:"latency_ms"`
}

// FromVerdict builds the audit event for a finished pipeline run.
func FromVerdict(v triage.Verdict, localeFallback bool, latency time.Duration) *Event {
	return &Event{
		Timestamp:      time.Now().UTC(),
		RequestID:      v.RequestID,
		Band:           v.Band.String(),
		RawBand:        v.RawBand.String(),
		RuleIDs:        v.RuleIDs,
		UnmatchedTerms: v.Report.Unmatched,
		LocaleFallback: localeFallback,
		LatencyMs:      float64(latency.Microseconds()) / 1000.0,
	}
}
