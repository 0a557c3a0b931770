package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/disease-support-server/internal/setup"
)

func newMCPSetupCmd(c *cli) *cobra.Command {
	var opts setup.Options

	cmd := &cobra.Command{
		Use:   "mcp-setup",
		Short: "Register the MCP server with a desktop MCP client",
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "client-config", "", "Client config file (defaults to the desktop client's location)")
	cmd.PersistentFlags().StringVar(&opts.ServerKey, "name", setup.DefaultServerKey, "Entry name under mcpServers")

	install := &cobra.Command{
		Use:   "install",
		Short: "Add or update the server entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cataloguePath != "" {
				abs, err := filepath.Abs(c.cataloguePath)
				if err != nil {
					return fmt.Errorf("failed to resolve catalogue path: %w", err)
				}
				opts.CataloguePath = abs
			}
			if cmd.Flags().Changed("log-level") {
				opts.LogLevel = c.logLevel
			}

			path, err := setup.Install(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s in %s\n", opts.ServerKey, path)
			return nil
		},
	}
	install.Flags().StringVar(&opts.BinaryPath, "binary", "", "Path to the mcp-server binary (defaults to a PATH lookup)")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether the server entry is present and launchable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := setup.GetStatus(opts)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return printJSON(cmd, st)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:     %s\n", st.ConfigPath)
			fmt.Fprintf(out, "configured: %t\n", st.Configured)
			if st.Configured {
				fmt.Fprintf(out, "command:    %s\n", st.Entry.Command)
			}
			for _, issue := range st.Issues {
				fmt.Fprintf(out, "issue:      %s\n", issue)
			}
			return nil
		},
	}

	cmd.AddCommand(install, status)
	return cmd
}
