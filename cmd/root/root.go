// Package root contains the root command for the application
package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/a1e5ya/smart-finance-planner/internal/config"
	"github.com/a1e5ya/smart-finance-planner/internal/export"
	"github.com/a1e5ya/smart-finance-planner/internal/logging"
)

// CommonFlags represents the flags that are shared by multiple commands
type CommonFlags struct {
	Input   string
	Output  string
	User    string
	Account string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the application configuration, loaded before any command runs
	Cfg *config.Config

	// SharedFlags holds the flag values shared across subcommands
	SharedFlags CommonFlags

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "smart-finance-planner",
		Short: "Import bank CSV exports and categorize transactions.",
		Long: `smart-finance-planner ingests CSV exports from any bank, normalizes
them into a single transaction format and categorizes them with
user-defined rules.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.WithError(err).Fatal("Failed to load configuration")
			}
			Cfg = cfg

			Log = config.ConfigureLoggingFromConfig(cfg)
			logging.SetLogger(logging.NewLogrusAdapterFromLogger(Log))

			if delim := os.Getenv("CSV_DELIMITER"); delim != "" {
				Log.WithField("delimiter", delim).Debug("Setting CSV delimiter from environment")
				export.SetDelimiter([]rune(delim)[0])
			}
		},
	}
)

func init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.User, "user", "u", "", "User ID owning the imported transactions")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Account, "account", "a", "", "Account ID the transactions belong to")
}

// Execute runs the root command.
func Execute() {
	if err := Cmd.Execute(); err != nil {
		Log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
