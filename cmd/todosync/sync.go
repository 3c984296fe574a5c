package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"todosync/internal/cli"
	"todosync/internal/config"
	"todosync/internal/utils"
	"todosync/remote"
	"todosync/sync"
)

const syncTimeout = 2 * time.Minute

// newSyncCmd creates the sync command with its subcommands
func newSyncCmd() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize local tasks with the hosted project",
		Long: `Run one synchronization pass against the remote project.

Local changes are pushed first in dependency order, then remote changes
are pulled back and merged. Conflicts resolve to whichever side was
updated most recently, with the remote winning ties it is newer for.

Examples:
  todosync sync              # Run one sync pass
  todosync sync enable       # Opt in to syncing
  todosync sync disable      # Stop syncing (local data is kept)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := requireSyncEnabled(s); err != nil {
				return err
			}

			gateway, accessToken, err := resolveRemote(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), syncTimeout)
			defer cancel()

			coordinator := newCoordinator(cfg, s, gateway)

			var result *sync.Result
			err = utils.LogOperation("sync", func() error {
				var runErr error
				result, runErr = coordinator.Run(ctx, accessToken)
				return runErr
			})
			if err != nil {
				if reason := offlineReason(err); reason != "" {
					return utils.ErrRemoteOffline(reason)
				}
				var gatewayErr *remote.GatewayError
				if errors.As(err, &gatewayErr) && gatewayErr.IsUnauthorized() {
					return utils.ErrAuthenticationFailed()
				}
				return utils.WrapWithSuggestion(fmt.Errorf("sync failed: %w", err),
					"Run with --verbose to see what each phase did")
			}

			cli.ShowSyncResult(result)
			return nil
		},
	}

	syncCmd.AddCommand(newSyncEnableCmd())
	syncCmd.AddCommand(newSyncDisableCmd())

	return syncCmd
}

func newSyncEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Opt in to syncing with the remote project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SetSyncEnabled(true); err != nil {
				return err
			}

			fmt.Println("Sync enabled. Run 'todosync sync' to synchronize.")
			return nil
		},
	}
}

func newSyncDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Stop syncing with the remote project",
		Long: `Stop syncing with the remote project.

Local data is kept as-is. Pending changes stay pending and will be
pushed on the next sync after re-enabling.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SetSyncEnabled(false); err != nil {
				return err
			}

			fmt.Println("Sync disabled. Local data is untouched.")
			return nil
		},
	}
}
