package catalogue

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/disease-support-server/internal/domain"
)

// fileFormat is the YAML layout of an externally supplied catalogue.
type fileFormat struct {
	Vocabulary []domain.VocabularyEntry `yaml:"vocabulary"`
	Diseases   []diseaseEntry           `yaml:"diseases"`
}

type diseaseEntry struct {
	ID              string             `yaml:"id"`
	Primary         []string           `yaml:"primary"`
	Secondary       []string           `yaml:"secondary"`
	SeverityWeights map[string]float64 `yaml:"severity_weights"`
}

// Load reads a catalogue from a YAML file.
func Load(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer f.Close()

	cat, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogue %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates a YAML catalogue. When the document has no
// vocabulary section the built-in vocabulary is used.
//
// A disease without any primary or secondary symptom is accepted here; it
// fails later, at scoring time, with an InvalidProfileError.
func Parse(r io.Reader) (*Catalogue, error) {
	var doc fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, domain.NewValidationError("diseases", "catalogue is empty", nil)
		}
		return nil, fmt.Errorf("failed to decode catalogue: %w", err)
	}

	vocab, err := buildVocabulary(doc.Vocabulary)
	if err != nil {
		return nil, err
	}

	diseases, err := buildDiseases(doc.Diseases)
	if err != nil {
		return nil, err
	}

	return &Catalogue{Vocabulary: vocab, Diseases: diseases}, nil
}

func buildVocabulary(entries []domain.VocabularyEntry) ([]domain.VocabularyEntry, error) {
	if len(entries) == 0 {
		return Default().Vocabulary, nil
	}

	seen := make(map[string]struct{}, len(entries))
	vocab := make([]domain.VocabularyEntry, 0, len(entries))
	for i, e := range entries {
		// lookups lower-case their input, so names are stored lower-cased
		e.Name = strings.ToLower(e.Name)
		if e.Name == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("vocabulary[%d].name", i), "must not be empty", e.Name)
		}
		if e.Code == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("vocabulary[%d].code", i), "must not be empty", e.Code)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, domain.NewValidationError(fmt.Sprintf("vocabulary[%d].name", i), "duplicate symptom name", e.Name)
		}
		seen[e.Name] = struct{}{}
		if e.Label == "" {
			e.Label = Label(e.Name)
		}
		vocab = append(vocab, e)
	}
	return vocab, nil
}

func buildDiseases(entries []diseaseEntry) ([]domain.BaseDisease, error) {
	if len(entries) == 0 {
		return nil, domain.NewValidationError("diseases", "at least one disease is required", nil)
	}

	seen := make(map[string]struct{}, len(entries))
	diseases := make([]domain.BaseDisease, 0, len(entries))
	for i, e := range entries {
		field := fmt.Sprintf("diseases[%d]", i)
		if e.ID == "" {
			return nil, domain.NewValidationError(field+".id", "must not be empty", e.ID)
		}
		if strings.Contains(e.ID, domain.CoinfectionSeparator) {
			return nil, domain.NewValidationError(field+".id", "must not contain the co-infection separator "+domain.CoinfectionSeparator, e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, domain.NewValidationError(field+".id", "duplicate disease id", e.ID)
		}
		seen[e.ID] = struct{}{}

		weights := make(map[domain.SymptomCode]float64, len(e.SeverityWeights))
		for code, w := range e.SeverityWeights {
			if w <= 0 {
				return nil, domain.NewValidationError(field+".severity_weights."+code, "must be positive", w)
			}
			weights[domain.SymptomCode(code)] = w
		}

		diseases = append(diseases, domain.BaseDisease{
			ID:      domain.DiseaseID(e.ID),
			Profile: domain.NewDiseaseProfile(codes(e.Primary...), codes(e.Secondary...), weights),
		})
	}
	return diseases, nil
}
