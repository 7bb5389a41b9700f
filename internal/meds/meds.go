// Package meds implements the medication safety check: heuristic extraction
// of medication names from raw text (OCR'd or pasted prescriptions) and a
// static side-effect/interaction table lookup. The extractor is deliberately
// conservative; it never validates against a formulary and never suggests
// doses.
package meds

import (
	"regexp"
	"sort"
	"strings"

	"github.com/careguide-ai/careguide/internal/triage"
)

const (
	maxExtracted = 20
	maxListed    = 12
)

// Token that looks like a drug name: a letter followed by up to 29 letters
// or hyphens, optionally trailed by a dosage-form word we do not capture.
var drugTokenRe = regexp.MustCompile(`(?i)\b([A-Za-z][A-Za-z\-]{1,29})(?:\s+(?:tablet|cap(?:sule)?|syrup|solution))?\b`)

// Common prescription boilerplate that is never a drug name.
var stoplist = map[string]struct{}{
	"take": {}, "tab": {}, "tablet": {}, "capsule": {}, "mg": {}, "mcg": {},
	"ml": {}, "dose": {}, "daily": {}, "bid": {}, "tid": {}, "qid": {},
	"po": {}, "prn": {}, "and": {}, "with": {}, "every": {}, "hours": {},
	"syrup": {}, "solution": {},
}

// canonical maps alternate names onto the table's canonical entry.
var canonical = map[string]string{
	"acetaminophen": "paracetamol",
	"tylenol":       "paracetamol",
	"advil":         "ibuprofen",
}

// Record is one medication's static safety data.
type Record struct {
	Common       []string `yaml:"common,omitempty" json:"common,omitempty"`
	Serious      []string `yaml:"serious,omitempty" json:"serious,omitempty"`
	Interactions []string `yaml:"interactions,omitempty" json:"interactions,omitempty"`
	Source       string   `yaml:"source,omitempty" json:"source,omitempty"`
}

// Table is the medication lookup table, keyed by canonical lowercase name.
// Loaded once, read-only afterwards.
type Table map[string]Record

// BuiltinTable is the compiled-in fallback used when config supplies none.
func BuiltinTable() Table {
	return Table{
		"ibuprofen": {
			Common:       []string{"nausea", "heartburn", "stomach upset"},
			Serious:      []string{"GI bleeding", "kidney issues"},
			Interactions: []string{"anticoagulants"},
			Source:       "builtin",
		},
		"paracetamol": {
			Common:       []string{"nausea", "rash (rare)"},
			Serious:      []string{"liver injury (overdose)"},
			Interactions: []string{"alcohol"},
			Source:       "builtin",
		},
		"amoxicillin": {
			Common:       []string{"nausea", "diarrhea", "rash"},
			Serious:      []string{"allergic reaction"},
			Interactions: []string{"warfarin"},
			Source:       "builtin",
		},
	}
}

// Validate checks the table for empty keys.
func (t Table) Validate() error {
	for name := range t {
		if strings.TrimSpace(name) == "" {
			return &triage.ConfigError{Source: "meds", Err: errEmptyName}
		}
	}
	return nil
}

type constError string

func (e constError) Error() string { return string(e) }

const errEmptyName = constError("medication table contains an empty name")

// Canonical lowercases and canonicalizes one medication name.
func Canonical(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if c, ok := canonical[n]; ok {
		return c
	}
	return n
}

// ExtractNames pulls probable medication names out of raw text. Lowercased,
// de-duplicated in first-seen order, capped at 20 entries.
func ExtractNames(text string) []string {
	t := strings.ReplaceAll(text, "\n", " ")
	var out []string
	seen := make(map[string]struct{})
	for _, m := range drugTokenRe.FindAllStringSubmatch(t, -1) {
		name := Canonical(m[1])
		if _, stop := stoplist[name]; stop {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
		if len(out) == maxExtracted {
			break
		}
	}
	return out
}

var listSepRe = regexp.MustCompile(`[,\n;]+`)

// SplitList accepts a comma/semicolon/newline separated string and returns
// canonicalized, de-duplicated names.
func SplitList(s string) []string {
	parts := listSepRe.Split(s, -1)
	var out []string
	seen := make(map[string]struct{})
	for _, p := range parts {
		n := Canonical(p)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Detail records the lookup outcome for one requested medication.
type Detail struct {
	Drug   string `json:"drug"`
	Found  bool   `json:"found"`
	Source string `json:"source,omitempty"`
}

// Report is the merged multi-medication safety summary.
type Report struct {
	Medications  []string `json:"medications"`
	Common       []string `json:"common_side_effects,omitempty"`
	Serious      []string `json:"serious_side_effects,omitempty"`
	Interactions []string `json:"possible_interactions,omitempty"`
	Details      []Detail `json:"details"`
}

// Check merges side effects and interactions for the given medications plus
// any extracted from fileText. Returns an empty-medication report error-free
// only when at least one name was provided.
func (t Table) Check(medications []string, fileText string) (Report, bool) {
	names := make([]string, 0, len(medications))
	seen := make(map[string]struct{})
	add := func(n string) {
		n = Canonical(n)
		if n == "" {
			return
		}
		if _, dup := seen[n]; dup {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	for _, m := range medications {
		add(m)
	}
	if fileText != "" {
		for _, m := range ExtractNames(fileText) {
			add(m)
		}
	}
	if len(names) == 0 {
		return Report{}, false
	}

	rep := Report{Medications: names}
	for _, name := range names {
		rec, ok := t[name]
		if !ok {
			rep.Details = append(rep.Details, Detail{Drug: name})
			continue
		}
		rep.Details = append(rep.Details, Detail{Drug: name, Found: true, Source: rec.Source})
		rep.Common = mergeCapped(rep.Common, rec.Common)
		rep.Serious = mergeCapped(rep.Serious, rec.Serious)
		rep.Interactions = mergeCapped(rep.Interactions, rec.Interactions)
	}
	return rep, true
}

// Names returns the table's medication names sorted, for tooling.
func (t Table) Names() []string {
	out := make([]string, 0, len(t))
	for n := range t {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func mergeCapped(dst, src []string) []string {
	for _, s := range src {
		if len(dst) == maxListed {
			return dst
		}
		if !containsString(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
