package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/disease-support-server/internal/domain"
)

// Coinfection is a derived profile for the simultaneous presence of two base diseases.
type Coinfection struct {
	ID      domain.DiseaseID
	First   domain.DiseaseID
	Second  domain.DiseaseID
	Profile domain.DiseaseProfile
}

// Registry holds the base disease profiles and one derived co-infection
// profile per unordered pair of base diseases. It is built once and never
// mutated, so concurrent readers need no coordination.
type Registry struct {
	base         []domain.BaseDisease
	coinfections []Coinfection
	index        map[domain.DiseaseID]domain.DiseaseProfile
	kinds        map[domain.DiseaseID]domain.DiseaseKind
	pairs        map[domain.DiseaseID]int
	fingerprint  string
}

// BuildRegistry derives co-infections for every index pair (i, j), i < j, in
// declared order. Base identifiers are expected to be unique; catalogue.Parse
// enforces that for external catalogues.
func BuildRegistry(base []domain.BaseDisease) *Registry {
	n := len(base)
	r := &Registry{
		base:         make([]domain.BaseDisease, n),
		coinfections: make([]Coinfection, 0, n*(n-1)/2),
		index:        make(map[domain.DiseaseID]domain.DiseaseProfile, n+n*(n-1)/2),
		kinds:        make(map[domain.DiseaseID]domain.DiseaseKind, n+n*(n-1)/2),
		pairs:        make(map[domain.DiseaseID]int, n*(n-1)/2),
	}
	copy(r.base, base)

	for _, d := range base {
		r.index[d.ID] = d.Profile
		r.kinds[d.ID] = domain.KindDisease
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			first, second := base[i], base[j]
			c := Coinfection{
				ID:      domain.CoinfectionID(first.ID, second.ID),
				First:   first.ID,
				Second:  second.ID,
				Profile: MergeProfiles(first.Profile, second.Profile),
			}
			r.pairs[c.ID] = len(r.coinfections)
			r.coinfections = append(r.coinfections, c)
			r.index[c.ID] = c.Profile
			r.kinds[c.ID] = domain.KindCoinfection
		}
	}

	r.fingerprint = fingerprint(r.base)
	return r
}

// MergeProfiles combines two profiles: primary and secondary symptoms are
// unions, severity weights are merged with second taking precedence on
// codes present in both.
func MergeProfiles(first, second domain.DiseaseProfile) domain.DiseaseProfile {
	weights := first.SeverityWeights()
	for code, w := range second.SeverityWeights() {
		weights[code] = w
	}

	return domain.NewDiseaseProfile(
		append(first.Primary(), second.Primary()...),
		append(first.Secondary(), second.Secondary()...),
		weights,
	)
}

// Get returns the profile registered under id.
func (r *Registry) Get(id domain.DiseaseID) (domain.DiseaseProfile, bool) {
	p, ok := r.index[id]
	return p, ok
}

// Kind reports whether id names a base disease or a co-infection.
func (r *Registry) Kind(id domain.DiseaseID) (domain.DiseaseKind, bool) {
	k, ok := r.kinds[id]
	return k, ok
}

// Coinfection returns the derived entry registered under id.
func (r *Registry) Coinfection(id domain.DiseaseID) (Coinfection, bool) {
	i, ok := r.pairs[id]
	if !ok {
		return Coinfection{}, false
	}
	return r.coinfections[i], true
}

// Base returns the base diseases in declared order.
func (r *Registry) Base() []domain.BaseDisease {
	out := make([]domain.BaseDisease, len(r.base))
	copy(out, r.base)
	return out
}

// Coinfections returns the derived entries in pair-generation order.
func (r *Registry) Coinfections() []Coinfection {
	out := make([]Coinfection, len(r.coinfections))
	copy(out, r.coinfections)
	return out
}

// Len returns the total number of registered profiles.
func (r *Registry) Len() int {
	return len(r.base) + len(r.coinfections)
}

// Fingerprint identifies the content of the registry; two registries built
// from the same base diseases share a fingerprint.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

func fingerprint(base []domain.BaseDisease) string {
	h := sha256.New()
	for _, d := range base {
		fmt.Fprintf(h, "id=%s;p=%v;s=%v;w=", d.ID, d.Profile.Primary(), d.Profile.Secondary())

		weights := d.Profile.SeverityWeights()
		codes := make([]string, 0, len(weights))
		for code := range weights {
			codes = append(codes, string(code))
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Fprintf(h, "%s:%g,", code, weights[domain.SymptomCode(code)])
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// DiseaseSummary is the exported description of one registered profile.
type DiseaseSummary struct {
	ID              domain.DiseaseID               `json:"id"`
	Kind            domain.DiseaseKind             `json:"kind"`
	Components      []domain.DiseaseID             `json:"components,omitempty"`
	Primary         []domain.SymptomCode           `json:"primary_symptoms"`
	Secondary       []domain.SymptomCode           `json:"secondary_symptoms"`
	SeverityWeights map[domain.SymptomCode]float64 `json:"severity_weights"`
}

func summarize(id domain.DiseaseID, kind domain.DiseaseKind, profile domain.DiseaseProfile) DiseaseSummary {
	return DiseaseSummary{
		ID:              id,
		Kind:            kind,
		Primary:         profile.Primary(),
		Secondary:       profile.Secondary(),
		SeverityWeights: profile.SeverityWeights(),
	}
}

// Describe summarizes the profile registered under id.
func (r *Registry) Describe(id domain.DiseaseID) (DiseaseSummary, bool) {
	profile, ok := r.index[id]
	if !ok {
		return DiseaseSummary{}, false
	}
	s := summarize(id, r.kinds[id], profile)
	if i, ok := r.pairs[id]; ok {
		s.Components = []domain.DiseaseID{r.coinfections[i].First, r.coinfections[i].Second}
	}
	return s, true
}

// DescribeAll summarizes base diseases in declared order, then co-infections
// in pair-generation order.
func (r *Registry) DescribeAll() []DiseaseSummary {
	out := make([]DiseaseSummary, 0, r.Len())
	for _, d := range r.base {
		out = append(out, summarize(d.ID, domain.KindDisease, d.Profile))
	}
	for _, c := range r.coinfections {
		s := summarize(c.ID, domain.KindCoinfection, c.Profile)
		s.Components = []domain.DiseaseID{c.First, c.Second}
		out = append(out, s)
	}
	return out
}
