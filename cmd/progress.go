package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/carnetlify/carnetlify/internal/progress"
	"github.com/carnetlify/carnetlify/internal/ui/layout"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show lesson progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, closeFn, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := cmd.Context()
		records := sess.Local.GetAll(ctx)
		done := progress.Completed(records)
		ratio := progress.Ratio(records, sess.Catalog.TotalLessons())

		fmt.Printf("User:      %s\n", sess.UserID)
		fmt.Printf("Progress:  %d%% (%d/%d lessons)\n\n",
			layout.Percent(ratio), len(done), sess.Catalog.TotalLessons())

		for _, b := range sess.Catalog.Blocks() {
			fmt.Println(b.Title)
			for _, l := range b.Lessons {
				mark := " "
				if done[l.ID] {
					mark = "✓"
				}
				fmt.Printf("  [%s] %d.%d  %s\n", mark, l.Block, l.Index, l.Title)
			}
		}

		limit, _ := cmd.Flags().GetInt("events")
		if limit <= 0 {
			return nil
		}
		if sess.Client == nil {
			fmt.Println("\nRecent events are not available offline.")
			return nil
		}
		resp, err := sess.Client.RecentEvents(ctx, limit)
		if err != nil {
			return fmt.Errorf("fetch events: %w", err)
		}
		fmt.Println()
		fmt.Printf("%-6s  %-19s  %s\n", "Seq", "Timestamp", "Slot")
		fmt.Println(strings.Repeat("─", 48))
		for _, e := range resp.Events {
			fmt.Printf("%-6d  %-19s  %s\n",
				e.Sequence,
				time.UnixMilli(e.Timestamp).Local().Format("2006-01-02 15:04:05"),
				e.SlotKey)
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().Int("events", 0, "Also list this many recent events from the progress service")
}
