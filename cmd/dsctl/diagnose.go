package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDiagnoseCmd(c *cli) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "diagnose [SYMPTOM...]",
		Short: "Rank diseases and co-infections for the given symptoms",
		Example: `  dsctl diagnose high_fever joint_pain rash
  dsctl diagnose --detailed high_fever,chills,sweating`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			symptoms := splitSymptoms(args)

			if !detailed {
				diagnosis, err := svc.Diagnose(cmd.Context(), symptoms)
				if err != nil {
					return err
				}
				if c.jsonOutput {
					return printJSON(cmd, diagnosis)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "RANK\tDISEASE\tCONFIDENCE")
				for i, e := range diagnosis {
					fmt.Fprintf(tw, "%d\t%s\t%.2f\n", i+1, e.Disease, e.Confidence)
				}
				return tw.Flush()
			}

			report, err := svc.Report(cmd.Context(), symptoms)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return printJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recognized:   %s\n", joinOrNone(report.Recognized))
			fmt.Fprintf(out, "Unrecognized: %s\n\n", joinOrNone(report.Unrecognized))

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tDISEASE\tKIND\tCONFIDENCE\tNOTE")
			for i, e := range report.Results {
				note := ""
				switch {
				case e.Severity != nil:
					note = e.Severity.Level + ": " + e.Severity.Message
				case e.HighConfidence:
					note = "high confidence"
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\n", i+1, e.Disease, e.Kind, e.Confidence, note)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "Annotate results with kind and co-infection severity")
	return cmd
}

// splitSymptoms accepts symptoms as separate arguments or comma-separated lists.
func splitSymptoms(args []string) []string {
	symptoms := make([]string, 0, len(args))
	for _, arg := range args {
		for _, s := range strings.Split(arg, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symptoms = append(symptoms, s)
			}
		}
	}
	return symptoms
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
