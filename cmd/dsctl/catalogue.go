package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/disease-support-server/internal/domain"
	"github.com/disease-support-server/internal/service"
)

func newSymptomsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List recognized symptom names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			normalizer := svc.Normalizer()

			if c.jsonOutput {
				return printJSON(cmd, map[string]interface{}{
					"symptoms":   normalizer.Vocabulary(),
					"collisions": normalizer.Collisions(),
				})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCODE\tCATEGORY\tLABEL")
			for _, e := range normalizer.Vocabulary() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Code, e.Category, e.Label)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			collisions := normalizer.Collisions()
			codes := make([]string, 0, len(collisions))
			for code := range collisions {
				codes = append(codes, string(code))
			}
			sort.Strings(codes)
			for _, code := range codes {
				fmt.Fprintf(cmd.OutOrStdout(), "note: %s is shared by %s\n", code, strings.Join(collisions[domain.SymptomCode(code)], ", "))
			}
			return nil
		},
	}
}

func newDiseasesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "diseases [ID]",
		Short: "List disease and co-infection profiles, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service(cmd)
			if err != nil {
				return err
			}
			registry := svc.Registry()

			if len(args) == 1 {
				summary, ok := registry.Describe(domain.DiseaseID(args[0]))
				if !ok {
					return fmt.Errorf("unknown disease: %s", args[0])
				}
				if c.jsonOutput {
					return printJSON(cmd, summary)
				}
				printSummary(cmd, summary)
				return nil
			}

			summaries := registry.DescribeAll()
			if c.jsonOutput {
				return printJSON(cmd, summaries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tPRIMARY\tSECONDARY\tWEIGHTED")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", s.ID, s.Kind, len(s.Primary), len(s.Secondary), len(s.SeverityWeights))
			}
			return tw.Flush()
		},
	}
}

func printSummary(cmd *cobra.Command, s service.DiseaseSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "id:         %s\n", s.ID)
	fmt.Fprintf(out, "kind:       %s\n", s.Kind)
	if len(s.Components) > 0 {
		fmt.Fprintf(out, "components: %s + %s\n", s.Components[0], s.Components[1])
	}
	fmt.Fprintf(out, "primary:    %s\n", joinCodes(s.Primary))
	fmt.Fprintf(out, "secondary:  %s\n", joinCodes(s.Secondary))

	codes := make([]string, 0, len(s.SeverityWeights))
	for code := range s.SeverityWeights {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	weights := make([]string, 0, len(codes))
	for _, code := range codes {
		weights = append(weights, fmt.Sprintf("%s=%g", code, s.SeverityWeights[domain.SymptomCode(code)]))
	}
	fmt.Fprintf(out, "severity:   %s\n", joinOrNone(weights))
}

func joinCodes(codes []domain.SymptomCode) string {
	values := make([]string, len(codes))
	for i, c := range codes {
		values[i] = string(c)
	}
	return joinOrNone(values)
}
