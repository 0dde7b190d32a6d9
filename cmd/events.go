package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carnetlify/carnetlify/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the progress service database",
}

var eventsListCmd = &cobra.Command{
	Use:   "list <uid>",
	Short: "List recent flag events for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().Recent(cmd.Context(), args[0], store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %s\n", "Seq", "Timestamp", "Slot")
		fmt.Println(strings.Repeat("─", 48))

		for _, e := range events {
			if kind != "" && !strings.HasPrefix(e.SlotKey, kind) {
				continue
			}
			fmt.Printf("%-6d  %-19s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.SlotKey,
			)
		}
		return nil
	},
}

var eventsSnapshotCmd = &cobra.Command{
	Use:   "snapshot <uid>",
	Short: "Show the stored lesson flags for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		u, err := s.UserRepo().Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		snap, err := s.FlagRepo().Snapshot(ctx, u.UID)
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}

		fmt.Printf("UID:      %s\n", u.UID)
		fmt.Printf("Email:    %s\n", u.Email)
		fmt.Printf("Created:  %s\n", u.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Println()

		keys := make([]string, 0, len(snap))
		for k := range snap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %-16s %v\n", k, snap[k])
		}
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	eventsListCmd.Flags().Int("limit", 50, "Maximum number of events")
	eventsListCmd.Flags().String("kind", "", "Only show slots of this kind (state or number)")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsSnapshotCmd)
}
