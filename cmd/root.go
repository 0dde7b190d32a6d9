package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carnetlify/carnetlify/internal/config"
	"github.com/carnetlify/carnetlify/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "carnetlify",
	Short: "Driving theory lessons in the terminal",
	Long:  "Carnetlify: classification exercises for the driving licence theory test, with progress synced to the Carnetlify service.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (overrides CARNETLIFY_CONFIG env var)")
	pf.String("db", "", "Path to the server SQLite database file (overrides CARNETLIFY_DB env var)")
	pf.String("server", "", "Base URL of the progress service")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.Bool("offline", false, "Play without the progress service")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		cfg.Store.DBPath = v
	}
	if v, _ := flags.GetString("server"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}

// resolveDBPath returns the database path using --db / config (highest
// priority), then CARNETLIFY_DB env var, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Store.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
