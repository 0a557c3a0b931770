// Package catalogue provides the symptom vocabulary and the authored base
// disease profiles, either built in or loaded from a YAML file.
package catalogue

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/disease-support-server/internal/domain"
)

// Symptom categories used to group the vocabulary for clients
const (
	CategoryFever       = "Fever Patterns"
	CategoryPain        = "Pain and Discomfort"
	CategoryRespiratory = "Respiratory Symptoms"
	CategorySensory     = "Sensory Changes"
	CategorySkin        = "Skin and Bleeding"
	CategoryGI          = "Gastrointestinal"
	CategoryGeneral     = "General Symptoms"
	CategoryClinical    = "Clinical Signs"
)

// Catalogue is the full authored input of the classifier: the closed symptom
// vocabulary and the ordered base diseases.
type Catalogue struct {
	Vocabulary []domain.VocabularyEntry
	Diseases   []domain.BaseDisease
}

// defaultVocabulary is kept verbatim, including the two names that share a
// code: continuous_fever/confusion (CF) and rapid_breathing/relative_bradycardia (RB).
var defaultVocabulary = []domain.VocabularyEntry{
	{Name: "high_fever", Code: "HF", Category: CategoryFever},
	{Name: "biphasic_fever", Code: "BF", Category: CategoryFever},
	{Name: "intermittent_fever", Code: "IF", Category: CategoryFever},
	{Name: "continuous_fever", Code: "CF", Category: CategoryFever},
	{Name: "severe_headache", Code: "SH", Category: CategoryPain},
	{Name: "retro_orbital_pain", Code: "ROP", Category: CategoryPain},
	{Name: "muscle_joint_pain", Code: "MJP", Category: CategoryPain},
	{Name: "abdominal_pain", Code: "AP", Category: CategoryPain},
	{Name: "cough", Code: "CG", Category: CategoryRespiratory},
	{Name: "shortness_breath", Code: "SOB", Category: CategoryRespiratory},
	{Name: "sore_throat", Code: "ST", Category: CategoryRespiratory},
	{Name: "rapid_breathing", Code: "RB", Category: CategoryRespiratory},
	{Name: "loss_smell", Code: "LS", Category: CategorySensory},
	{Name: "loss_taste", Code: "LT", Category: CategorySensory},
	{Name: "maculopapular_rash", Code: "MPR", Category: CategorySkin},
	{Name: "petechiae", Code: "PT", Category: CategorySkin},
	{Name: "bleeding_gums", Code: "BG", Category: CategorySkin},
	{Name: "nose_bleeds", Code: "NB", Category: CategorySkin},
	{Name: "gi_bleeding", Code: "GIB", Category: CategorySkin},
	{Name: "persistent_vomiting", Code: "PV", Category: CategoryGI},
	{Name: "nausea", Code: "NA", Category: CategoryGI},
	{Name: "diarrhea", Code: "DI", Category: CategoryGI},
	{Name: "constipation", Code: "CN", Category: CategoryGI},
	{Name: "fatigue", Code: "FT", Category: CategoryGeneral},
	{Name: "chills", Code: "CH", Category: CategoryGeneral},
	{Name: "profuse_sweating", Code: "PS", Category: CategoryGeneral},
	{Name: "muscle_aches", Code: "MA", Category: CategoryPain},
	{Name: "weakness", Code: "WK", Category: CategoryGeneral},
	{Name: "confusion", Code: "CF", Category: CategoryGeneral},
	{Name: "restlessness", Code: "RT", Category: CategoryGeneral},
	{Name: "rose_spots", Code: "RS", Category: CategoryClinical},
	{Name: "jaundice", Code: "JD", Category: CategoryClinical},
	{Name: "splenomegaly", Code: "SP", Category: CategoryClinical},
	{Name: "cyanosis", Code: "CY", Category: CategoryClinical},
	{Name: "relative_bradycardia", Code: "RB", Category: CategoryClinical},
}

// Default returns the built-in catalogue: 35 recognized symptom names and the
// base diseases dengue, malaria, typhoid and covid19, in that order.
func Default() *Catalogue {
	vocab := make([]domain.VocabularyEntry, len(defaultVocabulary))
	for i, e := range defaultVocabulary {
		e.Label = Label(e.Name)
		vocab[i] = e
	}

	return &Catalogue{
		Vocabulary: vocab,
		Diseases: []domain.BaseDisease{
			{
				ID: "dengue",
				Profile: domain.NewDiseaseProfile(
					codes("HF", "BF", "ROP", "MPR", "PT"),
					codes("MJP", "AP", "BG", "NB", "GIB", "PV", "RT"),
					map[domain.SymptomCode]float64{"PT": 1.5, "GIB": 1.8, "BG": 1.3},
				),
			},
			{
				ID: "malaria",
				Profile: domain.NewDiseaseProfile(
					codes("IF", "CH", "PS", "JD"),
					codes("SH", "NA", "PV", "MA", "SP", "CF"),
					map[domain.SymptomCode]float64{"JD": 1.4, "SP": 1.3},
				),
			},
			{
				ID: "typhoid",
				Profile: domain.NewDiseaseProfile(
					codes("CF", "RS", "RB"),
					codes("AP", "CN", "DI", "WK", "PV"),
					map[domain.SymptomCode]float64{"CF": 1.3, "RS": 1.2},
				),
			},
			{
				ID: "covid19",
				Profile: domain.NewDiseaseProfile(
					codes("CG", "SOB", "LS", "LT"),
					codes("ST", "HF", "CH", "MA", "NA", "DI", "CY", "CF"),
					map[domain.SymptomCode]float64{"SOB": 1.6, "CY": 1.5},
				),
			},
		},
	}
}

func codes(cs ...string) []domain.SymptomCode {
	out := make([]domain.SymptomCode, len(cs))
	for i, c := range cs {
		out[i] = domain.SymptomCode(c)
	}
	return out
}

// Label turns a vocabulary name into a display label: "retro_orbital_pain" -> "Retro Orbital Pain".
func Label(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
