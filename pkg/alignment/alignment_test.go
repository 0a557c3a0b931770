package alignment

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		seq1     []string
		seq2     []string
		expected float64
	}{
		{"Identical sequences", []string{"A", "B", "C"}, []string{"A", "B", "C"}, 9},
		{"Single mismatch", []string{"A"}, []string{"B"}, -1},
		{"Both empty", nil, nil, 0},
		{"First empty", nil, []string{"A", "B"}, -4},
		{"Second empty", []string{"A", "B", "C"}, []string{}, -6},
		{"One deletion", []string{"A", "B", "C"}, []string{"A", "C"}, 4},
		{"Disjoint symbols", []string{"A", "B"}, []string{"C", "D"}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.seq1, tt.seq2))
			assert.Equal(t, tt.expected, Score(tt.seq2, tt.seq1))
		})
	}
}

func TestScore_Runes(t *testing.T) {
	a := []rune("GATTACA")
	assert.Equal(t, 21.0, Score(a, a))
}

func TestAligner_CustomScoring(t *testing.T) {
	aligner := NewAligner[rune](Scoring{Match: 1, Mismatch: -1, Gap: -1})

	assert.Equal(t, 0.0, aligner.Score([]rune("GATTACA"), []rune("GCATGCU")))
}

func TestAligner_DefaultMatchesScore(t *testing.T) {
	aligner := NewAligner[string](DefaultScoring())
	seq1 := strings.Split("HF BF ROP PT", " ")
	seq2 := strings.Split("HF ROP MPR PT GIB", " ")

	assert.Equal(t, Score(seq1, seq2), aligner.Score(seq1, seq2))
	assert.Equal(t, Score(seq1, seq2), aligner.Align(seq1, seq2).Score)
}

func TestAligner_Align(t *testing.T) {
	aligner := NewAligner[string](DefaultScoring())

	result := aligner.Align([]string{"A", "B", "C"}, []string{"A", "C"})

	assert.Equal(t, 4.0, result.Score)
	require.Len(t, result.Pairs, 3)
	assert.Equal(t, Pair[string]{First: "A", Second: "A"}, result.Pairs[0])
	assert.Equal(t, Pair[string]{First: "B", SecondGap: true}, result.Pairs[1])
	assert.Equal(t, Pair[string]{First: "C", Second: "C"}, result.Pairs[2])
	assert.Equal(t, 2, result.Matches())
	assert.Equal(t, "A B C\nA - C", result.String())
}

func TestAligner_AlignEmpty(t *testing.T) {
	aligner := NewAligner[string](DefaultScoring())

	result := aligner.Align(nil, []string{"X", "Y"})
	assert.Equal(t, -4.0, result.Score)
	require.Len(t, result.Pairs, 2)
	assert.True(t, result.Pairs[0].FirstGap)
	assert.Equal(t, "X", result.Pairs[0].Second)
	assert.Equal(t, 0, result.Matches())

	result = aligner.Align(nil, nil)
	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.Pairs)
}

func TestAligner_PathScoreEqualsScore(t *testing.T) {
	scoring := DefaultScoring()
	aligner := NewAligner[rune](scoring)

	pairs := [][2]string{
		{"GATTACA", "GCATGCU"},
		{"AAAA", "A"},
		{"ACGT", "TGCA"},
		{"", "ACG"},
	}
	for _, p := range pairs {
		result := aligner.Align([]rune(p[0]), []rune(p[1]))

		var total float64
		for _, pair := range result.Pairs {
			switch {
			case pair.FirstGap || pair.SecondGap:
				total += scoring.Gap
			case pair.First == pair.Second:
				total += scoring.Match
			default:
				total += scoring.Mismatch
			}
		}
		assert.Equal(t, result.Score, total, "%s vs %s", p[0], p[1])
	}
}

func TestAligner_FractionalGapAgainstEmpty(t *testing.T) {
	aligner := NewAligner[string](Scoring{Match: 3, Mismatch: -1, Gap: -0.1})
	seq := []string{"a", "b", "c", "d", "e", "f"}

	tests := []struct {
		name       string
		seq1, seq2 []string
	}{
		{"Second empty", seq, nil},
		{"First empty", nil, seq},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result Result[string]
			require.NotPanics(t, func() { result = aligner.Align(tt.seq1, tt.seq2) })

			require.Len(t, result.Pairs, len(seq))
			for _, p := range result.Pairs {
				assert.True(t, p.FirstGap || p.SecondGap)
			}
			assert.InDelta(t, -0.6, result.Score, 1e-9)
			assert.Equal(t, aligner.Score(tt.seq1, tt.seq2), result.Score)
		})
	}
}

func TestAligner_FractionalScoring(t *testing.T) {
	scoring := Scoring{Match: 0.7, Mismatch: -0.3, Gap: -0.1}
	aligner := NewAligner[rune](scoring)
	seq1, seq2 := []rune("GATTACAGG"), []rune("GCATGCU")

	var result Result[rune]
	require.NotPanics(t, func() { result = aligner.Align(seq1, seq2) })
	assert.Equal(t, aligner.Score(seq1, seq2), result.Score)

	var first, second int
	var total float64
	for _, p := range result.Pairs {
		if !p.FirstGap {
			first++
		}
		if !p.SecondGap {
			second++
		}
		switch {
		case p.FirstGap || p.SecondGap:
			total += scoring.Gap
		case p.First == p.Second:
			total += scoring.Match
		default:
			total += scoring.Mismatch
		}
	}
	assert.Equal(t, len(seq1), first)
	assert.Equal(t, len(seq2), second)
	assert.InDelta(t, result.Score, total, 1e-9)
}

func TestScoring_Validate(t *testing.T) {
	tests := []struct {
		name    string
		scoring Scoring
		errMsg  string
	}{
		{"Default", DefaultScoring(), ""},
		{"Fractional", Scoring{Match: 0.5, Mismatch: -0.25, Gap: -0.1}, ""},
		{"At bound", Scoring{Match: MaxMagnitude, Mismatch: -MaxMagnitude, Gap: -1}, ""},
		{"Huge match", Scoring{Match: 1e308, Mismatch: -1, Gap: -2}, "match must be within"},
		{"NaN mismatch", Scoring{Match: 1, Mismatch: math.NaN(), Gap: -2}, "mismatch must be a finite number"},
		{"Infinite gap", Scoring{Match: 1, Mismatch: -1, Gap: math.Inf(-1)}, "gap must be a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scoring.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidScoring)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
