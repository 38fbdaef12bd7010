package main

import (
	"github.com/spf13/cobra"

	"sqlport/internal/version"
)

var (
	// rootFlag is the project root holding .sqlport/
	rootFlag string

	// logLevelFlag overrides the configured log level
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "sqlport",
	Short: "sqlport - Sybase to Oracle SQL conversion",
	Long: `sqlport converts Sybase SQL and T-SQL stored procedures to Oracle
PL/SQL using an AI collaborator, then grades every conversion with static
complexity analysis and synthesized performance metrics. Results are cached
in two tiers so identical inputs never pay for a second model call.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("sqlport version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Project root containing the .sqlport directory")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (overrides config)")
}
