package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Create or update your profile on the progress service",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")

		sess, closeFn, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()
		if sess.Client == nil {
			return errors.New("profile needs the progress service; drop --offline")
		}

		p, err := sess.Client.EnsureProfile(cmd.Context(), email, name)
		if err != nil {
			return err
		}
		fmt.Printf("UID:      %s\n", p.UID)
		if p.Email != "" {
			fmt.Printf("Email:    %s\n", p.Email)
		}
		if p.DisplayName != "" {
			fmt.Printf("Name:     %s\n", p.DisplayName)
		}
		fmt.Printf("Created:  %s\n", time.UnixMilli(p.CreatedAt).Local().Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	profileCmd.Flags().String("email", "", "Email address")
	profileCmd.Flags().String("name", "", "Display name")
}
