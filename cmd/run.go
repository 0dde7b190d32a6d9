package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carnetlify/carnetlify/internal/app"
	"github.com/carnetlify/carnetlify/internal/appsession"
	"github.com/carnetlify/carnetlify/internal/config"
	"github.com/carnetlify/carnetlify/internal/logger"
	"github.com/carnetlify/carnetlify/internal/store"
)

// runApp loads config, opens the session, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	sess, closeFn, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer closeFn()

	return app.Run(sess)
}

// openSession builds the client session shared by the TUI and the
// progress commands. Logs go to a file so they stay out of the terminal.
// localOnly forces offline mode for commands that never reach the service.
func openSession(cmd *cobra.Command, localOnly bool) (*appsession.Session, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := clientLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	offline, _ := cmd.Flags().GetBool("offline")
	offline = offline || localOnly
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := appsession.Open(ctx, cfg, log, appsession.Options{Offline: offline})
	if err != nil {
		log.Sync()
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	return sess, func() {
		if err := sess.Close(); err != nil {
			log.Warn("close session", "error", err)
		}
		log.Sync()
	}, nil
}

func clientLogger(cfg *config.Config) (*logger.Logger, error) {
	path := cfg.Log.File
	if path == "" {
		p, err := config.DefaultLogPath()
		if err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
		path = p
	}
	if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return logger.New(logger.Options{
		Mode:        cfg.Log.Mode,
		Level:       cfg.Log.Level,
		OutputPaths: []string{path},
	})
}
