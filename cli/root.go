// Package cli implements the atelier command line tool: inspection and
// conversion of config documents, and housekeeping of run directories in the
// workspace.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/atelier-ml/atelier/pkg/logger"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "atelier",
		Short: "Config and experiment bookkeeping for ML workspaces",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				return err
			}
			logger.SetupLogger(logLevel, logJSON, logSource)
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Log in JSON format")
	root.PersistentFlags().Bool("log-source", false, "Add source location to log output")

	root.AddCommand(
		ConfigCmd(),
		RunsCmd(),
	)

	return root
}
