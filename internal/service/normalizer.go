package service

import (
	"strings"

	"github.com/disease-support-server/internal/domain"
)

// SymptomNormalizer maps free-text symptom names onto canonical symptom codes
// using a closed vocabulary. It is immutable and safe for concurrent use.
type SymptomNormalizer struct {
	vocabulary []domain.VocabularyEntry
	lookup     map[string]domain.SymptomCode
}

// NewSymptomNormalizer creates a normalizer over vocab. Names are matched
// case-insensitively; when a name appears twice the first entry wins.
func NewSymptomNormalizer(vocab []domain.VocabularyEntry) *SymptomNormalizer {
	n := &SymptomNormalizer{
		vocabulary: make([]domain.VocabularyEntry, len(vocab)),
		lookup:     make(map[string]domain.SymptomCode, len(vocab)),
	}
	copy(n.vocabulary, vocab)
	for _, e := range vocab {
		key := strings.ToLower(e.Name)
		if _, exists := n.lookup[key]; !exists {
			n.lookup[key] = e.Code
		}
	}
	return n
}

// Normalize lower-cases each input and returns the codes of the recognized
// names in input order. Unrecognized names are dropped silently and
// duplicates are kept; callers needing strict validation compare lengths.
func (n *SymptomNormalizer) Normalize(raw []string) []domain.SymptomCode {
	codes := make([]domain.SymptomCode, 0, len(raw))
	for _, s := range raw {
		if code, ok := n.lookup[strings.ToLower(s)]; ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// Partition splits raw into recognized and unrecognized names, preserving order.
func (n *SymptomNormalizer) Partition(raw []string) (recognized, unrecognized []string) {
	recognized = make([]string, 0, len(raw))
	unrecognized = make([]string, 0)
	for _, s := range raw {
		if _, ok := n.lookup[strings.ToLower(s)]; ok {
			recognized = append(recognized, s)
		} else {
			unrecognized = append(unrecognized, s)
		}
	}
	return recognized, unrecognized
}

// Lookup returns the code for a single name.
func (n *SymptomNormalizer) Lookup(name string) (domain.SymptomCode, bool) {
	code, ok := n.lookup[strings.ToLower(name)]
	return code, ok
}

// Vocabulary returns the vocabulary in declaration order.
func (n *SymptomNormalizer) Vocabulary() []domain.VocabularyEntry {
	out := make([]domain.VocabularyEntry, len(n.vocabulary))
	copy(out, n.vocabulary)
	return out
}

// Collisions returns every code that more than one distinct name maps to,
// with the names in declaration order. The shipped vocabulary has two
// (CF and RB); they are reported, not resolved.
func (n *SymptomNormalizer) Collisions() map[domain.SymptomCode][]string {
	names := make(map[domain.SymptomCode][]string)
	for _, e := range n.vocabulary {
		names[e.Code] = append(names[e.Code], strings.ToLower(e.Name))
	}

	collisions := make(map[domain.SymptomCode][]string)
	for code, ns := range names {
		if len(ns) > 1 {
			collisions[code] = ns
		}
	}
	return collisions
}
