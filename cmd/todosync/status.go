package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"todosync/internal/cli"
	"todosync/internal/config"
	"todosync/internal/utils"
)

// statusReport is the machine-readable shape of the status command
type statusReport struct {
	SyncEnabled    bool   `json:"sync_enabled" yaml:"sync_enabled"`
	LastSyncedAt   string `json:"last_synced_at,omitempty" yaml:"last_synced_at,omitempty"`
	Tasks          int    `json:"tasks" yaml:"tasks"`
	Categories     int    `json:"categories" yaml:"categories"`
	PendingChanges int    `json:"pending_changes" yaml:"pending_changes"`
	DatabaseSize   int64  `json:"database_size_bytes" yaml:"database_size_bytes"`
	DatabasePath   string `json:"database_path" yaml:"database_path"`
}

func newStatusCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show local database and sync state",
		Long: `Display the local database statistics together with the sync state:
whether sync is enabled, when the last successful pass finished, and
how many local changes are waiting to be pushed.

Use --output json or --output yaml for machine-readable output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.Stats()
			if err != nil {
				return err
			}

			enabled, err := s.SyncEnabled()
			if err != nil {
				return err
			}

			lastSyncedAt, err := s.LastSyncedAt()
			if err != nil {
				return err
			}

			last := ""
			if lastSyncedAt != nil {
				last = *lastSyncedAt
			}

			switch output {
			case "", "text":
				cli.ShowStatus(&stats, last, enabled)
				return nil
			case "json":
				return utils.OutputJSON(statusReport{
					SyncEnabled:    enabled,
					LastSyncedAt:   last,
					Tasks:          stats.TaskCount,
					Categories:     stats.CategoryCount,
					PendingChanges: stats.PendingSyncOps,
					DatabaseSize:   stats.DatabaseSize,
					DatabasePath:   s.Path(),
				})
			case "yaml":
				return utils.OutputYAML(statusReport{
					SyncEnabled:    enabled,
					LastSyncedAt:   last,
					Tasks:          stats.TaskCount,
					Categories:     stats.CategoryCount,
					PendingChanges: stats.PendingSyncOps,
					DatabaseSize:   stats.DatabaseSize,
					DatabasePath:   s.Path(),
				})
			default:
				return fmt.Errorf("unknown output format %q (expected text, json or yaml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")

	return cmd
}
