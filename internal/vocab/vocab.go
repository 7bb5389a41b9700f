// Package vocab holds the closed, versioned symptom vocabulary. The
// normalizer maps input against it with exact and synonym lookup only; terms
// outside it are dropped and recorded as unmatched. Widening recognition
// beyond this table is deliberately not supported.
package vocab

import (
	"fmt"
	"sort"
	"strings"
)

// Vocabulary is an immutable set of canonical symptom tags plus a synonym
// table mapping alternate phrasings onto them. Safe for concurrent readers.
type Vocabulary struct {
	version  string
	terms    map[string]struct{}
	synonyms map[string]string // phrase -> canonical tag
}

// New builds a vocabulary from canonical tags and a synonym table. Every
// synonym must resolve to a known tag.
func New(version string, terms []string, synonyms map[string]string) (*Vocabulary, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("vocabulary %q has no terms", version)
	}
	v := &Vocabulary{
		version:  version,
		terms:    make(map[string]struct{}, len(terms)),
		synonyms: make(map[string]string, len(synonyms)),
	}
	for _, t := range terms {
		tag := normalizeTag(t)
		if tag == "" {
			return nil, fmt.Errorf("vocabulary %q contains an empty term", version)
		}
		v.terms[tag] = struct{}{}
	}
	for syn, target := range synonyms {
		tag := normalizeTag(target)
		if _, ok := v.terms[tag]; !ok {
			return nil, fmt.Errorf("synonym %q maps to unknown term %q", syn, target)
		}
		v.synonyms[normalizePhrase(syn)] = tag
	}
	return v, nil
}

// Version returns the vocabulary version string.
func (v *Vocabulary) Version() string { return v.version }

// Contains reports whether tag is a canonical term.
func (v *Vocabulary) Contains(tag string) bool {
	_, ok := v.terms[normalizeTag(tag)]
	return ok
}

// Canonical resolves a raw term to its canonical tag via exact or synonym
// lookup. The second result is false when the term is unknown.
func (v *Vocabulary) Canonical(term string) (string, bool) {
	tag := normalizeTag(term)
	if _, ok := v.terms[tag]; ok {
		return tag, true
	}
	if target, ok := v.synonyms[normalizePhrase(term)]; ok {
		return target, true
	}
	return "", false
}

// Terms returns the canonical tags in sorted order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, 0, len(v.terms))
	for t := range v.terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Phrases returns every phrase the free-text matcher should scan for, mapped
// to its canonical tag. Canonical tags are included as their spaced form
// ("chest_pain" -> "chest pain") alongside all synonyms.
func (v *Vocabulary) Phrases() map[string]string {
	out := make(map[string]string, len(v.terms)+len(v.synonyms))
	for t := range v.terms {
		out[strings.ReplaceAll(t, "_", " ")] = t
	}
	for syn, tag := range v.synonyms {
		out[syn] = tag
	}
	return out
}

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(strings.Join(strings.Fields(s), "_"), "-", "_")
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
