package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/disease-support-server/pkg/alignment"
)

func newAlignCmd(c *cli) *cobra.Command {
	var (
		scoring   = alignment.DefaultScoring()
		chars     bool
		traceback bool
	)

	cmd := &cobra.Command{
		Use:   "align SEQ1 SEQ2",
		Short: "Score the global alignment of two sequences",
		Long: `Score the Needleman-Wunsch global alignment of two sequences.
Sequences are comma-separated symbols, or single characters with --chars.
An empty argument is an empty sequence.`,
		Example: `  dsctl align high_fever,rash,headache high_fever,headache
  dsctl align --chars --traceback GATTACA GCATGCU`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scoring.Validate(); err != nil {
				return err
			}

			split := splitSequence
			if chars {
				split = splitChars
			}
			seq1, seq2 := split(args[0]), split(args[1])
			aligner := alignment.NewAligner[string](scoring)

			if !traceback {
				score := aligner.Score(seq1, seq2)
				if c.jsonOutput {
					return printJSON(cmd, map[string]float64{"score": score})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "score: %g\n", score)
				return nil
			}

			result := aligner.Align(seq1, seq2)
			if c.jsonOutput {
				return printJSON(cmd, map[string]interface{}{
					"score":     result.Score,
					"matches":   result.Matches(),
					"alignment": result.Pairs,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "score: %g\nmatches: %d\n%s\n", result.Score, result.Matches(), result.String())
			return nil
		},
	}

	cmd.Flags().Float64Var(&scoring.Match, "match", alignment.DefaultMatch, "Score for equal symbols")
	cmd.Flags().Float64Var(&scoring.Mismatch, "mismatch", alignment.DefaultMismatch, "Score for different symbols")
	cmd.Flags().Float64Var(&scoring.Gap, "gap", alignment.DefaultGap, "Score for a gap")
	cmd.Flags().BoolVar(&chars, "chars", false, "Treat each character as one symbol")
	cmd.Flags().BoolVar(&traceback, "traceback", false, "Print one optimal alignment")
	return cmd
}

func splitSequence(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
