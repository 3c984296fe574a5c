package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todosync/internal/cli"
	"todosync/internal/credentials"
	"todosync/internal/utils"
)

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage secrets in the system keyring",
		Long: `Securely manage the secrets todosync needs using the system keyring.

Secrets are resolved in priority order:
  1. System keyring (most secure) - recommended
  2. Environment variables (good for CI, .env supported)
  3. Config file (anon key only)

Known secrets:
  access-token   the Supabase session JWT
  anon-key       the project's public anon key

Examples:
  # Store the access token (interactive prompt)
  todosync credentials set access-token --prompt

  # Check where a secret is coming from
  todosync credentials get access-token

  # Remove a secret from the keyring
  todosync credentials delete access-token`,
	}

	cmd.AddCommand(newCredentialsSetCmd())
	cmd.AddCommand(newCredentialsGetCmd())
	cmd.AddCommand(newCredentialsDeleteCmd())

	return cmd
}

func newCredentialsSetCmd() *cobra.Command {
	var promptValue bool

	cmd := &cobra.Command{
		Use:   "set <name> [value]",
		Short: "Store a secret in the system keyring",
		Long: `Store a secret securely in the system keyring.

With --prompt the value is read interactively without echoing, which
keeps it out of shell history. This is the recommended way to store
the access token.

Examples:
  # Interactive prompt (most secure)
  todosync credentials set access-token --prompt

  # Non-interactive (value visible in shell history)
  todosync credentials set anon-key eyJhbGciOi...`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: cli.CredentialNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var value string
			if promptValue {
				fmt.Printf("Enter value for %s: ", name)
				valueBytes, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Println()
				if err != nil {
					return fmt.Errorf("failed to read value: %w", err)
				}
				value = string(valueBytes)

				if value == "" {
					return fmt.Errorf("value cannot be empty")
				}
			} else if len(args) >= 2 {
				value = args[1]
			} else {
				return fmt.Errorf("value is required (use --prompt for interactive input)")
			}

			if err := credentials.Set(name, value); err != nil {
				if !credentials.IsAvailable() {
					return fmt.Errorf("system keyring is not available. Use an environment variable instead:\n  export %s=<value>",
						credentials.EnvVarName(name))
				}
				return err
			}

			fmt.Printf("✓ Stored %q in the keyring\n", name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&promptValue, "prompt", false, "Prompt for the value interactively (recommended)")

	return cmd
}

func newCredentialsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Check where a secret is resolved from",
		Long: `Check which source a secret is resolved from.

The secret's value is never printed; only the source (keyring,
environment, or config file) is shown.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.CredentialNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			resolver := credentials.NewResolver()
			cred, err := resolver.Resolve(name, "")
			if err != nil {
				fmt.Printf("✗ No secret named %q found\n", name)
				fmt.Println("\nAvailable options:")
				fmt.Println("  1. Store in keyring:")
				fmt.Printf("     todosync credentials set %s --prompt\n", name)
				fmt.Println("  2. Set an environment variable:")
				fmt.Printf("     export %s=<value>\n", credentials.EnvVarName(name))
				return err
			}

			fmt.Printf("✓ Secret %q found\n", name)
			fmt.Printf("  Source: %s\n", cred.Source)

			if cred.Source == credentials.SourceEnv {
				fmt.Println("\n⚠ Using an environment variable")
				fmt.Println("  Consider the keyring for better security:")
				fmt.Printf("    todosync credentials set %s --prompt\n", name)
			}

			return nil
		},
	}
}

func newCredentialsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a secret from the system keyring",
		Long: `Remove a stored secret from the system keyring.

Only the keyring entry is removed. Environment variables and config
file values are not affected.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.CredentialNameCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !force {
				if !utils.PromptYesNo(fmt.Sprintf("Delete %q from the keyring?", name)) {
					fmt.Println("Cancelled")
					return nil
				}
			}

			if err := credentials.Delete(name); err != nil {
				return err
			}

			fmt.Printf("✓ Removed %q from the keyring\n", name)
			if credentials.HasEnv(name) {
				fmt.Printf("⚠ Note: %s is still set in the environment and will be used.\n",
					credentials.EnvVarName(name))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
