package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the local progress cache",
	Long:  "Clear the local progress cache. Progress recorded by the service is kept and comes back on the next sync.",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, closeFn, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer closeFn()

		if err := sess.Local.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Local progress cleared.")
		return nil
	},
}
