package catalogue

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disease-support-server/internal/domain"
)

func TestDefault(t *testing.T) {
	cat := Default()

	assert.Len(t, cat.Vocabulary, 35)
	require.Len(t, cat.Diseases, 4)

	ids := make([]domain.DiseaseID, len(cat.Diseases))
	for i, d := range cat.Diseases {
		ids[i] = d.ID
	}
	assert.Equal(t, []domain.DiseaseID{"dengue", "malaria", "typhoid", "covid19"}, ids)

	dengue := cat.Diseases[0].Profile
	assert.Equal(t, 5, dengue.PrimaryCount())
	assert.Equal(t, 7, dengue.SecondaryCount())
	w, ok := dengue.SeverityWeight("GIB")
	assert.True(t, ok)
	assert.Equal(t, 1.8, w)
}

func TestDefault_KeepsCodeCollisions(t *testing.T) {
	byName := make(map[string]domain.SymptomCode)
	for _, e := range Default().Vocabulary {
		byName[e.Name] = e.Code
	}

	assert.Equal(t, domain.SymptomCode("CF"), byName["continuous_fever"])
	assert.Equal(t, domain.SymptomCode("CF"), byName["confusion"])
	assert.Equal(t, domain.SymptomCode("RB"), byName["rapid_breathing"])
	assert.Equal(t, domain.SymptomCode("RB"), byName["relative_bradycardia"])
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Vocabulary[0].Code = "XX"

	assert.Equal(t, domain.SymptomCode("HF"), Default().Vocabulary[0].Code)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"high_fever", "High Fever"},
		{"retro_orbital_pain", "Retro Orbital Pain"},
		{"cough", "Cough"},
		{"gi_bleeding", "Gi Bleeding"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.in), tt.in)
	}
}

const validCatalogue = `
vocabulary:
  - name: Fever
    code: F
    category: General
  - name: rash
    code: R
diseases:
  - id: measles
    primary: [F, R]
    secondary: [C]
    severity_weights:
      R: 1.2
  - id: flu
    primary: [F]
`

func TestParse_Valid(t *testing.T) {
	cat, err := Parse(strings.NewReader(validCatalogue))
	require.NoError(t, err)

	require.Len(t, cat.Vocabulary, 2)
	assert.Equal(t, "fever", cat.Vocabulary[0].Name)
	assert.Equal(t, "Fever", cat.Vocabulary[0].Label)
	assert.Equal(t, "Rash", cat.Vocabulary[1].Label)

	require.Len(t, cat.Diseases, 2)
	assert.Equal(t, domain.DiseaseID("measles"), cat.Diseases[0].ID)
	assert.Equal(t, []domain.SymptomCode{"F", "R"}, cat.Diseases[0].Profile.Primary())
	w, ok := cat.Diseases[0].Profile.SeverityWeight("R")
	assert.True(t, ok)
	assert.Equal(t, 1.2, w)
}

func TestParse_DefaultVocabulary(t *testing.T) {
	cat, err := Parse(strings.NewReader("diseases:\n  - id: flu\n    primary: [HF]\n"))
	require.NoError(t, err)

	assert.Len(t, cat.Vocabulary, 35)
}

func TestParse_AcceptsEmptyProfile(t *testing.T) {
	cat, err := Parse(strings.NewReader("diseases:\n  - id: empty\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, cat.Diseases[0].Profile.PrimaryCount())
	assert.Equal(t, 0, cat.Diseases[0].Profile.SecondaryCount())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"Empty document", "", "diseases"},
		{"No diseases", "vocabulary:\n  - name: a\n    code: A\n", "diseases"},
		{"Missing id", "diseases:\n  - primary: [A]\n", "diseases[0].id"},
		{"Separator in id", "diseases:\n  - id: a_b\n", "diseases[0].id"},
		{"Duplicate id", "diseases:\n  - id: a\n  - id: a\n", "diseases[1].id"},
		{"Non-positive weight", "diseases:\n  - id: a\n    severity_weights: {X: 0}\n", "diseases[0].severity_weights.X"},
		{"Empty name", "vocabulary:\n  - code: A\ndiseases:\n  - id: a\n", "vocabulary[0].name"},
		{"Empty code", "vocabulary:\n  - name: a\ndiseases:\n  - id: a\n", "vocabulary[0].code"},
		{"Duplicate name", "vocabulary:\n  - {name: a, code: A}\n  - {name: A, code: B}\ndiseases:\n  - id: a\n", "vocabulary[1].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("diseases:\n  - id: a\n    hallmark: [X]\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalogue), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cat.Diseases, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
