package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/disease-support-server/internal/catalogue"
	"github.com/disease-support-server/internal/domain"
)

func TestSymptomNormalizer_Normalize(t *testing.T) {
	n := NewSymptomNormalizer(catalogue.Default().Vocabulary)

	tests := []struct {
		name  string
		input []string
		want  []domain.SymptomCode
	}{
		{"Empty input", nil, []domain.SymptomCode{}},
		{"Known names", []string{"high_fever", "cough"}, []domain.SymptomCode{"HF", "CG"}},
		{"Case insensitive", []string{"HIGH_FEVER", "Retro_Orbital_Pain"}, []domain.SymptomCode{"HF", "ROP"}},
		{"Unknown dropped", []string{"high_fever", "hiccups", ""}, []domain.SymptomCode{"HF"}},
		{"Whitespace is not trimmed", []string{" high_fever"}, []domain.SymptomCode{}},
		{"Duplicates kept", []string{"cough", "cough"}, []domain.SymptomCode{"CG", "CG"}},
		{"Colliding names", []string{"continuous_fever", "confusion"}, []domain.SymptomCode{"CF", "CF"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.input))
		})
	}
}

func TestSymptomNormalizer_CanonicalCodesAreNotNames(t *testing.T) {
	n := NewSymptomNormalizer(catalogue.Default().Vocabulary)

	// codes are only accepted where they are also vocabulary keys
	input := []string{"HF", "CG", "ROP", "cough"}
	first := n.Normalize(input)
	second := n.Normalize(input)

	assert.Equal(t, []domain.SymptomCode{"CG"}, first)
	assert.Equal(t, first, second)
}

func TestSymptomNormalizer_Partition(t *testing.T) {
	n := NewSymptomNormalizer(catalogue.Default().Vocabulary)

	recognized, unrecognized := n.Partition([]string{"Cough", "hiccups", "nausea", "yawning"})

	assert.Equal(t, []string{"Cough", "nausea"}, recognized)
	assert.Equal(t, []string{"hiccups", "yawning"}, unrecognized)
}

func TestSymptomNormalizer_Lookup(t *testing.T) {
	n := NewSymptomNormalizer(catalogue.Default().Vocabulary)

	code, ok := n.Lookup("Jaundice")
	assert.True(t, ok)
	assert.Equal(t, domain.SymptomCode("JD"), code)

	_, ok = n.Lookup("JD")
	assert.False(t, ok)
}

func TestSymptomNormalizer_Collisions(t *testing.T) {
	n := NewSymptomNormalizer(catalogue.Default().Vocabulary)

	assert.Equal(t, map[domain.SymptomCode][]string{
		"CF": {"continuous_fever", "confusion"},
		"RB": {"rapid_breathing", "relative_bradycardia"},
	}, n.Collisions())
}

func TestSymptomNormalizer_FirstEntryWins(t *testing.T) {
	n := NewSymptomNormalizer([]domain.VocabularyEntry{
		{Name: "fever", Code: "F1"},
		{Name: "Fever", Code: "F2"},
	})

	assert.Equal(t, []domain.SymptomCode{"F1"}, n.Normalize([]string{"FEVER"}))
}

func TestSymptomNormalizer_VocabularyIsCopied(t *testing.T) {
	vocab := []domain.VocabularyEntry{{Name: "fever", Code: "F"}}
	n := NewSymptomNormalizer(vocab)

	vocab[0].Code = "X"
	n.Vocabulary()[0].Code = "Y"

	assert.Equal(t, domain.SymptomCode("F"), n.Vocabulary()[0].Code)
}
