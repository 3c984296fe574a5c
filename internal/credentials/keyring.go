package credentials

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for all todosync keyring entries
	KeyringService = "todosync"

	// Well-known credential names
	NameAccessToken = "access-token"
	NameAnonKey     = "anon-key"
)

// KnownNames lists the credential names the CLI works with.
var KnownNames = []string{NameAccessToken, NameAnonKey}

// Set stores a named secret in the OS keyring
func Set(name, value string) error {
	if name == "" {
		return fmt.Errorf("credential name cannot be empty")
	}
	if value == "" {
		return fmt.Errorf("credential value cannot be empty")
	}

	if err := keyring.Set(KeyringService, name, value); err != nil {
		return fmt.Errorf("failed to store credential in keyring: %w", err)
	}

	return nil
}

// Get retrieves a named secret from the OS keyring
func Get(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("credential name cannot be empty")
	}

	value, err := keyring.Get(KeyringService, name)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("no credential named %q found in keyring", name)
		}
		return "", fmt.Errorf("failed to retrieve credential from keyring: %w", err)
	}

	return value, nil
}

// Delete removes a named secret from the OS keyring
func Delete(name string) error {
	if name == "" {
		return fmt.Errorf("credential name cannot be empty")
	}

	if err := keyring.Delete(KeyringService, name); err != nil {
		if err == keyring.ErrNotFound {
			return fmt.Errorf("no credential named %q found in keyring", name)
		}
		return fmt.Errorf("failed to delete credential from keyring: %w", err)
	}

	return nil
}

// IsAvailable checks if the keyring is accessible
// This is useful for providing helpful error messages when keyring is not available
func IsAvailable() bool {
	// Try to get a non-existent item. ErrNotFound means the keyring itself
	// works; any other error means it is unreachable.
	_, err := keyring.Get(KeyringService+"-probe", "probe")
	return err == nil || err == keyring.ErrNotFound
}
