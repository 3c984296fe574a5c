package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"todosync/internal/autosync"
	"todosync/internal/cli"
	"todosync/internal/config"
	"todosync/internal/utils"
	"todosync/realtime"
)

func newWatchCmd() *cobra.Command {
	var syncOnChange bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the remote change feed live",
		Long: `Subscribe to the remote change feed over a websocket and print row
changes as other devices make them. The connection heartbeats every 25
seconds and reconnects with backoff when it drops.

With --sync, each burst of remote changes triggers a background sync
pass so the local database follows along.

Press Ctrl+C to stop.`,
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

			anonKey, err := resolveAnonKey(cfg)
			if err != nil {
				return err
			}

			var runner *autosync.Runner
			if syncOnChange {
				runner = autosync.NewRunner(
					newCoordinator(cfg, s, gateway),
					accessToken,
					syncTimeout,
					utils.ComponentLogger("[autosync] "),
				)
				runner.OnResult = cli.ShowSyncResult
				defer runner.Shutdown(10 * time.Second)
			}

			client := realtime.NewClient()
			client.Subscribe(func(event realtime.Event) {
				cli.ShowRealtimeEvent(event)
				if runner != nil && event.Type == realtime.EventChange {
					runner.Trigger()
				}
			})

			err = client.Connect(realtime.Config{
				URL:         cfg.Remote.URL,
				AnonKey:     anonKey,
				AccessToken: accessToken,
				UserID:      cfg.Remote.UserID,
				Tables:      cfg.WatchedTables(),
				Logger:      utils.ComponentLogger("[realtime] "),
			})
			if err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			fmt.Println("\nStopping...")
			return client.Disconnect()
		},
	}

	cmd.Flags().BoolVar(&syncOnChange, "sync", false, "run a sync pass when remote changes arrive")

	return cmd
}
