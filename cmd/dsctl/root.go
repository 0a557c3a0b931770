package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/disease-support-server/internal/domain"
	"github.com/disease-support-server/internal/logging"
	"github.com/disease-support-server/internal/service"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// cli carries the persistent flags shared by every command.
type cli struct {
	cataloguePath string
	jsonOutput    bool
	logLevel      string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "dsctl",
		Short:        "Infectious disease symptom classifier",
		Long:         "dsctl ranks dengue, malaria, typhoid, COVID-19 and their co-infections for a list of symptoms, without a running server.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&c.cataloguePath, "catalogue", "", "Path to a YAML catalogue (defaults to the built-in one)")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Print JSON instead of tables")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "error", "Log level written to stderr")

	root.AddCommand(
		newDiagnoseCmd(c),
		newAlignCmd(c),
		newSymptomsCmd(c),
		newDiseasesCmd(c),
		newMCPSetupCmd(c),
		newVersionCmd(),
	)
	return root
}

// logger writes to the command's stderr so stdout stays parseable.
func (c *cli) logger(cmd *cobra.Command) (*logrus.Logger, error) {
	logger, err := logging.New(domain.LoggingConfig{Level: c.logLevel, Format: "text", Output: "stderr"})
	if err != nil {
		return nil, err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	return logger, nil
}

// service builds a DiagnosisService from the selected catalogue.
func (c *cli) service(cmd *cobra.Command) (*service.DiagnosisService, error) {
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, err
	}
	cat, err := service.LoadCatalogue(c.cataloguePath)
	if err != nil {
		return nil, err
	}
	return service.NewFromCatalogue(logger, cat), nil
}

// printJSON writes v indented to the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "dsctl", version)
		},
	}
}
