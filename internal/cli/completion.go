package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"todosync/internal/credentials"
	"todosync/remote"
)

// CredentialNameCompletion suggests the credential names the CLI knows about
func CredentialNameCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, name := range credentials.KnownNames {
		if strings.HasPrefix(name, strings.ToLower(toComplete)) {
			completions = append(completions, name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// TableNameCompletion suggests the remote table names watchable over realtime
func TableNameCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, table := range remote.WatchedTables() {
		if strings.HasPrefix(table, strings.ToLower(toComplete)) {
			completions = append(completions, table)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
