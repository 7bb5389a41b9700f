// Package shape is the last pipeline stage: it turns an internal Verdict
// into the caller-facing response. It attaches the disclaimer (which no
// configuration can suppress), localizes message ids with a fail-open
// default language, applies the audience redaction policy, and decorates the
// response with tone hints. Single-pass transform, no state machine.
package shape

import (
	"github.com/careguide-ai/careguide/internal/triage"
)

// Audience controls which internal fields survive shaping.
type Audience string

const (
	// AudiencePatient redacts raw rule ids and trigger evidence.
	AudiencePatient Audience = "patient"
	// AudienceClinician keeps the full verdict detail.
	AudienceClinician Audience = "clinician"
)

// Options select per-request shaping behavior.
type Options struct {
	Locale   string
	Audience Audience
	Tone     Mode
}

// Response is the structured object handed back to the agent framework.
type Response struct {
	RequestID  string                 `json:"request_id"`
	Band       string                 `json:"band"`
	Headline   string                 `json:"headline"`
	Advisories []string               `json:"advisories,omitempty"`
	RuleIDs    []string               `json:"rule_ids,omitempty"` // clinician audience only
	Evidence   triage.MatchedEvidence `json:"evidence"`
	Disclaimer string                 `json:"disclaimer"`
	Locale     string                 `json:"locale"`
	LocaleFell bool                   `json:"locale_fallback,omitempty"`
	Tone       ToneProfile            `json:"tone"`
}

// Shaper renders verdicts. Immutable after New; safe for concurrent use.
type Shaper struct {
	loc *localizer
}

// New builds a shaper over the given bundles. Passing nil bundles selects
// the builtin catalogs; defaultLang must name a present bundle.
func New(bundles map[string]Bundle, defaultLang string) (*Shaper, error) {
	if bundles == nil {
		bundles = BuiltinBundles()
	}
	if defaultLang == "" {
		defaultLang = "en"
	}
	if _, ok := bundles[defaultLang]; !ok {
		return nil, &triage.ConfigError{Source: "locales", Err: errMissingDefault(defaultLang)}
	}
	loc, err := newLocalizer(bundles, defaultLang)
	if err != nil {
		return nil, &triage.ConfigError{Source: "locales", Err: err}
	}
	return &Shaper{loc: loc}, nil
}

type errMissingDefault string

func (e errMissingDefault) Error() string {
	return "default language " + string(e) + " has no bundle"
}

// Shape renders a verdict for one caller. The disclaimer is always present;
// a missing translation falls back to the default language rather than
// failing.
func (s *Shaper) Shape(v triage.Verdict, opts Options) Response {
	lang, fell := s.loc.resolve(opts.Locale)

	headline, miss := s.loc.message(lang, "band."+v.Band.String())
	fell = fell || miss

	advisories := make([]string, 0, len(v.AdvisoryIDs))
	for _, id := range v.AdvisoryIDs {
		msg, m := s.loc.message(lang, id)
		fell = fell || m
		advisories = append(advisories, msg)
	}

	disclaimer, m := s.loc.message(lang, "disclaimer")
	fell = fell || m

	resp := Response{
		RequestID:  v.RequestID,
		Band:       v.Band.String(),
		Headline:   headline,
		Advisories: advisories,
		Evidence:   v.Evidence,
		Disclaimer: disclaimer,
		Locale:     lang,
		LocaleFell: fell,
		Tone:       toneProfile(opts.Tone),
	}

	if opts.Audience == AudienceClinician {
		resp.RuleIDs = append([]string(nil), v.RuleIDs...)
	} else {
		resp.Evidence = redactEvidence(resp.Evidence)
	}
	return resp
}

// redactEvidence strips internal rule identifiers and trigger detail for the
// patient audience, keeping category and advisory context.
func redactEvidence(ev triage.MatchedEvidence) triage.MatchedEvidence {
	if len(ev.Rules) == 0 {
		return ev
	}
	rules := make([]triage.RuleHit, len(ev.Rules))
	for i, h := range ev.Rules {
		rules[i] = triage.RuleHit{
			Category:   h.Category,
			MinBand:    h.MinBand,
			AdvisoryID: h.AdvisoryID,
		}
	}
	out := ev
	out.Rules = rules
	return out
}
