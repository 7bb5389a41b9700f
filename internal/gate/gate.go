// Package gate applies the hard safety rule table on top of the raw
// classifier output. The gate only ever escalates: the final band is the
// maximum of the raw band and every fired rule's forced minimum, so rule
// evaluation order can never change the outcome and the rule set can grow
// without reordering concerns.
package gate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/careguide-ai/careguide/internal/triage"
)

// Result is the gate's decision for one report.
type Result struct {
	Band    triage.RiskBand
	RawBand triage.RiskBand
	Hits    []triage.RuleHit // sorted by rule id
}

// Gate evaluates the static rule set. Immutable after New; safe for
// concurrent use without locking.
type Gate struct {
	rules []Rule
}

// New validates the rule table and builds a gate over it.
func New(rules []Rule) (*Gate, error) {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if err := r.validate(); err != nil {
			return nil, &triage.ConfigError{Source: "rules", Err: err}
		}
		if _, dup := seen[r.ID]; dup {
			return nil, &triage.ConfigError{Source: "rules", Err: fmt.Errorf("duplicate rule id %q", r.ID)}
		}
		seen[r.ID] = struct{}{}
	}
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &Gate{rules: owned}, nil
}

// Rules returns a copy of the rule table, for introspection tooling.
func (g *Gate) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// Apply evaluates every rule against the report and escalates the raw band
// to the highest forced minimum among fired rules. It never lowers the band
// and never mutates the report or the rule set.
func (g *Gate) Apply(rep triage.SymptomReport, raw triage.RiskBand) Result {
	res := Result{Band: raw, RawBand: raw}
	for _, r := range g.rules {
		if !r.matches(rep) {
			continue
		}
		res.Band = triage.MaxBand(res.Band, r.MinBand)
		res.Hits = append(res.Hits, triage.RuleHit{
			RuleID:     r.ID,
			Category:   r.Category,
			MinBand:    r.MinBand,
			AdvisoryID: r.AdvisoryID,
			Evidence:   describeTrigger(r, rep),
		})
	}
	sort.Slice(res.Hits, func(i, j int) bool { return res.Hits[i].RuleID < res.Hits[j].RuleID })
	return res
}

// describeTrigger renders a short human-readable account of why a rule fired.
func describeTrigger(r Rule, rep triage.SymptomReport) string {
	if r.MatchEmpty {
		return "no symptoms or attributes reported"
	}
	var parts []string
	if len(r.RequiredTags) > 0 {
		parts = append(parts, "tags: "+strings.Join(r.RequiredTags, "+"))
	}
	if r.MinAge > 0 || r.MaxAge > 0 {
		parts = append(parts, fmt.Sprintf("age %d", rep.Age))
	}
	if r.MinDurationHours > 0 {
		parts = append(parts, fmt.Sprintf("duration %.0fh", rep.DurationHours))
	}
	if r.Severity != "" {
		parts = append(parts, "severity "+r.Severity)
	}
	for _, vt := range r.Vitals {
		if v, ok := rep.Vital(vt.Name); ok {
			parts = append(parts, fmt.Sprintf("%s=%.1f", vt.Name, v))
		}
	}
	return strings.Join(parts, ", ")
}
