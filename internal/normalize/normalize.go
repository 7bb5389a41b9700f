// Package normalize turns raw symptom intake (free text, structured fields,
// or both) into a canonical SymptomReport. Recognition is exact and synonym
// lookup against the closed vocabulary only; there is no fuzzy matching and
// no inference. That boundary is a safety decision, not a missing feature:
// everything downstream must be explainable from the vocabulary and the rule
// tables alone.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/careguide-ai/careguide/internal/triage"
	"github.com/careguide-ai/careguide/internal/vocab"
)

// Intake is the raw payload handed over by the agent framework. Any subset
// of fields may be set; Text and Tags are merged.
type Intake struct {
	Text          string             `json:"text,omitempty"`
	Tags          []string           `json:"tags,omitempty"`
	Age           int                `json:"age,omitempty"`
	DurationHours float64            `json:"duration_hours,omitempty"`
	Severity      string             `json:"severity,omitempty"`
	Vitals        map[string]float64 `json:"vitals,omitempty"`
}

var (
	reSpace    = regexp.MustCompile(`\s+`)
	reDuration = regexp.MustCompile(`(?:for|since)\s+(?:about\s+|around\s+)?(\d+(?:\.\d+)?)\s*(hour|hr|day|week)s?\b`)
	reMild     = regexp.MustCompile(`\b(mild|slight)\b`)
	reSevere   = regexp.MustCompile(`\b(severe|intense|worst|10\s*/\s*10|10 out of 10)\b`)
)

// Normalizer maps intakes onto a fixed vocabulary.
type Normalizer struct {
	vocab   *vocab.Vocabulary
	phrases []phrase // sorted longest-first for stable, specific-first matching
}

type phrase struct {
	text string
	tag  string
}

// New builds a normalizer over the given vocabulary.
func New(v *vocab.Vocabulary) *Normalizer {
	m := v.Phrases()
	ps := make([]phrase, 0, len(m))
	for text, tag := range m {
		ps = append(ps, phrase{text: text, tag: tag})
	}
	sort.Slice(ps, func(i, j int) bool {
		if len(ps[i].text) != len(ps[j].text) {
			return len(ps[i].text) > len(ps[j].text)
		}
		return ps[i].text < ps[j].text
	})
	return &Normalizer{vocab: v, phrases: ps}
}

// Vocabulary returns the vocabulary the normalizer was built over.
func (n *Normalizer) Vocabulary() *vocab.Vocabulary { return n.vocab }

// Normalize converts an intake into a SymptomReport.
//
// It fails with *triage.UnrecognizedInputError only when the intake carried
// input but nothing at all could be parsed from it. A fully empty intake is
// valid and yields an empty report (Low risk downstream, unless
// absence-of-data gate rules apply).
func (n *Normalizer) Normalize(in Intake) (triage.SymptomReport, error) {
	var rep triage.SymptomReport

	tagSet := make(map[string]struct{})
	var unmatched []string

	for _, raw := range in.Tags {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if tag, ok := n.vocab.Canonical(raw); ok {
			tagSet[tag] = struct{}{}
		} else {
			unmatched = append(unmatched, normText(raw))
		}
	}

	text := normText(in.Text)
	if text != "" {
		for _, p := range n.phrases {
			if containsPhrase(text, p.text) {
				tagSet[p.tag] = struct{}{}
			}
		}
		if m := reDuration.FindStringSubmatch(text); m != nil && in.DurationHours == 0 {
			rep.DurationHours = toHours(m[1], m[2])
		}
		if rep.Severity == triage.SeverityUnknown {
			if reSevere.MatchString(text) {
				rep.Severity = triage.SeveritySevere
			} else if reMild.MatchString(text) {
				rep.Severity = triage.SeverityMild
			}
		}
	}

	if in.DurationHours > 0 {
		rep.DurationHours = in.DurationHours
	}
	if in.Age > 0 {
		rep.Age = in.Age
	}
	if s, ok := parseSeverity(in.Severity); ok {
		rep.Severity = s
	}
	for name, val := range in.Vitals {
		if rep.Vitals == nil {
			rep.Vitals = make(map[string]float64, len(in.Vitals))
		}
		rep.Vitals[strings.ToLower(strings.TrimSpace(name))] = val
	}

	rep.Tags = make([]string, 0, len(tagSet))
	for tag := range tagSet {
		rep.Tags = append(rep.Tags, tag)
	}
	sort.Strings(rep.Tags)
	sort.Strings(unmatched)
	rep.Unmatched = unmatched

	hadInput := text != "" || len(in.Tags) > 0
	if hadInput && rep.Empty() {
		return triage.SymptomReport{}, &triage.UnrecognizedInputError{
			Input:     in.Text,
			Unmatched: unmatched,
		}
	}
	return rep, nil
}

// containsPhrase matches p inside text on word boundaries, so "sob" does not
// fire inside "sobbing".
func containsPhrase(text, p string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], p)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(p)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('0' <= b && b <= '9')
}

func normText(s string) string {
	return reSpace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

func parseSeverity(s string) (triage.Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return triage.SeverityMild, true
	case "moderate":
		return triage.SeverityModerate, true
	case "severe":
		return triage.SeveritySevere, true
	}
	return triage.SeverityUnknown, false
}

func toHours(num, unit string) float64 {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	switch unit {
	case "day":
		return n * 24
	case "week":
		return n * 24 * 7
	default: // hour, hr
		return n
	}
}
