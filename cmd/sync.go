package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull completed lessons from the progress service",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, closeFn, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		res, err := sess.Reconciler().Pull(cmd.Context())
		if err != nil {
			return err
		}
		if len(res.Marked) == 0 {
			fmt.Println("Local progress is up to date.")
			return nil
		}
		fmt.Printf("Marked completed: %s\n", strings.Join(res.Marked, ", "))
		return nil
	},
}
