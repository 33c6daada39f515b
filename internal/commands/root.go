package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/balkashynov/studyclock/internal/chronometer"
	"github.com/balkashynov/studyclock/internal/config"
	"github.com/balkashynov/studyclock/internal/logging"
	"github.com/balkashynov/studyclock/internal/sessionclient"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	apiURL     string

	cfg       config.Config
	logger    *slog.Logger
	closeLogs = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "studyclock",
	Short: "A study session timer backed by a session server",
	Long: `studyclock tracks study time and break time per subject.
Sessions live on a studyclock server ('studyclock serve'); the timer recovers
an open session after a restart and keeps counting from the server's start time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if apiURL != "" {
			loaded.APIURL = apiURL
		}
		cfg = loaded

		l, closeFn, err := logging.Open(cfg.LogFile, cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = l
		closeLogs = closeFn
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogs()
	},
}

// newClient builds the API client from the loaded config
func newClient() *sessionclient.HTTPClient {
	return sessionclient.NewHTTPClient(cfg.APIURL, cfg.RequestTimeout)
}

// newRegistry returns the per-subject chronometers for this process
func newRegistry(client sessionclient.Client, hooks chronometer.Hooks) *chronometer.Registry {
	return chronometer.NewRegistry(client,
		chronometer.WithLogger(logger),
		chronometer.WithHooks(hooks),
	)
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "studyclock %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/studyclock/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "studyclock server URL (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(subjectCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
