// Package alignment implements Needleman-Wunsch global alignment over
// sequences of arbitrary comparable symbols.
package alignment

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Default scoring constants
const (
	DefaultMatch    = 3.0
	DefaultMismatch = -1.0
	DefaultGap      = -2.0
)

// Scoring holds the match, mismatch and gap scores of an alignment.
type Scoring struct {
	Match    float64 `json:"match"`
	Mismatch float64 `json:"mismatch"`
	Gap      float64 `json:"gap"`
}

// MaxMagnitude bounds the absolute value of each score so that table
// entries stay finite for any sequence length a caller can hold in memory.
const MaxMagnitude = 1e12

// ErrInvalidScoring is returned by Scoring.Validate.
var ErrInvalidScoring = errors.New("invalid scoring")

// DefaultScoring returns match 3, mismatch -1, gap -2.
func DefaultScoring() Scoring {
	return Scoring{Match: DefaultMatch, Mismatch: DefaultMismatch, Gap: DefaultGap}
}

// Validate rejects non-finite scores and scores whose magnitude exceeds
// MaxMagnitude.
func (s Scoring) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{{"match", s.Match}, {"mismatch", s.Mismatch}, {"gap", s.Gap}} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidScoring, f.name)
		}
		if math.Abs(f.value) > MaxMagnitude {
			return fmt.Errorf("%w: %s must be within ±%g", ErrInvalidScoring, f.name, MaxMagnitude)
		}
	}
	return nil
}

// Score returns the optimal global alignment score of seq1 and seq2 under
// DefaultScoring. Two empty sequences score 0; one empty sequence scores
// Gap times the length of the other.
func Score[T comparable](seq1, seq2 []T) float64 {
	return lastRow(seq1, seq2, DefaultScoring())[len(seq2)]
}

// Aligner aligns sequences with a configurable scoring scheme.
type Aligner[T comparable] struct {
	scoring Scoring
}

// NewAligner creates an aligner using scoring.
func NewAligner[T comparable](scoring Scoring) *Aligner[T] {
	return &Aligner[T]{scoring: scoring}
}

// Pair is one column of an alignment. FirstGap or SecondGap marks the side
// that holds no symbol in that column.
type Pair[T comparable] struct {
	First     T    `json:"first"`
	Second    T    `json:"second"`
	FirstGap  bool `json:"first_gap,omitempty"`
	SecondGap bool `json:"second_gap,omitempty"`
}

// Result is a scored alignment with one optimal path through the table.
type Result[T comparable] struct {
	Score float64   `json:"score"`
	Pairs []Pair[T] `json:"pairs"`
}

// Matches counts the aligned positions holding equal symbols.
func (r Result[T]) Matches() int {
	n := 0
	for _, p := range r.Pairs {
		if !p.FirstGap && !p.SecondGap && p.First == p.Second {
			n++
		}
	}
	return n
}

// String renders the alignment as two rows, using "-" for gaps.
func (r Result[T]) String() string {
	var top, bottom []string
	for _, p := range r.Pairs {
		a, b := fmt.Sprint(p.First), fmt.Sprint(p.Second)
		if p.FirstGap {
			a = "-"
		}
		if p.SecondGap {
			b = "-"
		}
		top = append(top, a)
		bottom = append(bottom, b)
	}
	return strings.Join(top, " ") + "\n" + strings.Join(bottom, " ")
}

// Score returns the optimal global alignment score.
func (a *Aligner[T]) Score(seq1, seq2 []T) float64 {
	return lastRow(seq1, seq2, a.scoring)[len(seq2)]
}

// Align returns the optimal score and one alignment achieving it. When
// several moves tie, the diagonal is preferred, then a gap in seq2, then a
// gap in seq1.
func (a *Aligner[T]) Align(seq1, seq2 []T) Result[T] {
	t := table(seq1, seq2, a.scoring)

	i, j := len(seq1), len(seq2)
	pairs := make([]Pair[T], 0, i+j)
	for i > 0 || j > 0 {
		switch {
		case j == 0:
			pairs = append(pairs, Pair[T]{First: seq1[i-1], SecondGap: true})
			i--
		case i == 0:
			pairs = append(pairs, Pair[T]{Second: seq2[j-1], FirstGap: true})
			j--
		case t[i][j] == t[i-1][j-1]+substitution(a.scoring, seq1[i-1], seq2[j-1]):
			pairs = append(pairs, Pair[T]{First: seq1[i-1], Second: seq2[j-1]})
			i--
			j--
		case t[i][j] == t[i-1][j]+a.scoring.Gap:
			pairs = append(pairs, Pair[T]{First: seq1[i-1], SecondGap: true})
			i--
		default:
			pairs = append(pairs, Pair[T]{Second: seq2[j-1], FirstGap: true})
			j--
		}
	}

	for l, r := 0, len(pairs)-1; l < r; l, r = l+1, r-1 {
		pairs[l], pairs[r] = pairs[r], pairs[l]
	}

	return Result[T]{Score: t[len(seq1)][len(seq2)], Pairs: pairs}
}

func substitution[T comparable](s Scoring, x, y T) float64 {
	if x == y {
		return s.Match
	}
	return s.Mismatch
}

// table fills the (m+1)x(n+1) dynamic programming table. Boundaries are
// accumulated the same way interior cells are, so every cell equals one of
// the sums the traceback recomputes.
func table[T comparable](seq1, seq2 []T, s Scoring) [][]float64 {
	m, n := len(seq1), len(seq2)
	t := make([][]float64, m+1)
	for i := range t {
		t[i] = make([]float64, n+1)
		if i > 0 {
			t[i][0] = t[i-1][0] + s.Gap
		}
	}
	for j := 1; j <= n; j++ {
		t[0][j] = t[0][j-1] + s.Gap
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			t[i][j] = max(
				t[i-1][j-1]+substitution(s, seq1[i-1], seq2[j-1]),
				t[i-1][j]+s.Gap,
				t[i][j-1]+s.Gap,
			)
		}
	}
	return t
}

// lastRow computes row m of the table keeping only two rows in memory.
func lastRow[T comparable](seq1, seq2 []T, s Scoring) []float64 {
	n := len(seq2)
	prev, cur := make([]float64, n+1), make([]float64, n+1)
	for j := 1; j <= n; j++ {
		prev[j] = prev[j-1] + s.Gap
	}

	for i := 1; i <= len(seq1); i++ {
		cur[0] = prev[0] + s.Gap
		for j := 1; j <= n; j++ {
			cur[j] = max(
				prev[j-1]+substitution(s, seq1[i-1], seq2[j-1]),
				prev[j]+s.Gap,
				cur[j-1]+s.Gap,
			)
		}
		prev, cur = cur, prev
	}
	return prev
}
