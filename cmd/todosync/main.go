package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"todosync/internal/config"
	"todosync/internal/credentials"
	"todosync/internal/utils"
)

func main() {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "todosync",
		Short: "Offline-first task sync client",
		Long: `todosync keeps a local SQLite task database in step with a hosted
Supabase project. Changes made offline are pushed on the next sync,
remote changes are pulled back, and the watch command follows the
remote change feed live.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				config.SetCustomConfigPath(configPath)
			}
			if verbose || config.GetConfig().Verbose {
				utils.SetVerboseMode(true)
			}
			credentials.LoadDotEnv()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file or directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newCredentialsCmd())

	if err := rootCmd.Execute(); err != nil {
		log.SetFlags(0)
		log.Println(err)
		os.Exit(1)
	}
}
