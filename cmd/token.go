package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carnetlify/carnetlify/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token <uid>",
	Short: "Issue a bearer token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ttl := cfg.Auth.TokenTTL
		if v, _ := cmd.Flags().GetDuration("ttl"); v > 0 {
			ttl = v
		}

		iss, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, ttl)
		if err != nil {
			return fmt.Errorf("auth: %w (set CARNETLIFY_AUTH_SECRET)", err)
		}
		tok, exp, err := iss.Issue(args[0])
		if err != nil {
			return err
		}
		fmt.Println(tok)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Local().Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (overrides auth.token_ttl)")
}
