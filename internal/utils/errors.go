package utils

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with a helpful suggestion for the user
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap allows errors.Is and errors.As to work
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// Common error constructors with suggestions

// ErrSyncNotEnabled creates an error when sync operations are attempted but sync is disabled
func ErrSyncNotEnabled() error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("sync is not enabled"),
		Suggestion: "Enable sync with 'todosync sync enable'",
	}
}

// ErrNotSignedIn creates an error when no access token is available
func ErrNotSignedIn() error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("no access token available"),
		Suggestion: "Store a token with 'todosync credentials set access-token --prompt'",
	}
}

// ErrRemoteOffline creates an error when the remote project is unreachable
func ErrRemoteOffline(reason string) error {
	suggestion := "Check your internet connection and try again"
	if strings.Contains(reason, "DNS") {
		suggestion = "Check your DNS settings and internet connection"
	} else if strings.Contains(reason, "refused") {
		suggestion = "Check the project URL in your config"
	} else if strings.Contains(reason, "timeout") {
		suggestion = "The server may be slow or unreachable. Try again later"
	}

	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("remote is unreachable: %s", reason),
		Suggestion: suggestion,
	}
}

// ErrAuthenticationFailed creates an error when the remote rejects the token
func ErrAuthenticationFailed() error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("authentication failed"),
		Suggestion: "The access token may have expired. Store a fresh one with 'todosync credentials set access-token --prompt'",
	}
}

// ErrCredentialsNotFound creates an error when credentials are not found
func ErrCredentialsNotFound(name string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("credential %q not found", name),
		Suggestion: fmt.Sprintf("Store it with 'todosync credentials set %s --prompt'", name),
	}
}

// ErrConfigFileNotFound creates an error when config file is not found
func ErrConfigFileNotFound(path string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("config file not found at %s", path),
		Suggestion: "Run todosync to create a default configuration file",
	}
}

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(field string, reason string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid configuration for '%s': %s", field, reason),
		Suggestion: fmt.Sprintf("Check ~/.config/todosync/config.yaml and fix the '%s' field", field),
	}
}

// WrapWithSuggestion wraps an existing error with a suggestion
func WrapWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}
