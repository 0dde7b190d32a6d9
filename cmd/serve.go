package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/carnetlify/carnetlify/internal/auth"
	"github.com/carnetlify/carnetlify/internal/logger"
	"github.com/carnetlify/carnetlify/internal/server"
	"github.com/carnetlify/carnetlify/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the progress service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		log, err := logger.New(logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level})
		if err != nil {
			return err
		}
		defer log.Sync()

		verifier, err := auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer)
		if err != nil {
			return fmt.Errorf("auth: %w (set CARNETLIFY_AUTH_SECRET)", err)
		}

		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := server.Options{
			Users:          st.UserRepo(),
			Flags:          st.FlagRepo(),
			Events:         st.EventRepo(),
			Verifier:       verifier,
			Ping:           st.Ping,
			Log:            log,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}
		if cfg.Redis.Addr != "" {
			cache, closeCache, err := server.NewRedisCache(ctx, server.RedisCacheOptions{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				TTL:      cfg.Redis.TTL,
			})
			if err != nil {
				log.Warn("snapshot cache disabled", "error", err)
			} else {
				defer closeCache()
				opts.Cache = cache
			}
		}

		if cfg.Log.Mode == "prod" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv, err := server.New(opts)
		if err != nil {
			return err
		}
		log.Info("progress service starting", "db", dbPath, "cache", opts.Cache != nil)
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
