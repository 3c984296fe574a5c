package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorWithSuggestion_Error(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		suggestion     string
		wantContains   []string
		wantNotContain string
	}{
		{
			name:         "with suggestion",
			err:          errors.New("task not found"),
			suggestion:   "Try searching with a different term",
			wantContains: []string{"task not found", "Suggestion:", "Try searching"},
		},
		{
			name:           "without suggestion",
			err:            errors.New("simple error"),
			suggestion:     "",
			wantContains:   []string{"simple error"},
			wantNotContain: "Suggestion:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &ErrorWithSuggestion{
				Err:        tt.err,
				Suggestion: tt.suggestion,
			}

			result := e.Error()

			for _, want := range tt.wantContains {
				if !strings.Contains(result, want) {
					t.Errorf("Error() = %q, want to contain %q", result, want)
				}
			}

			if tt.wantNotContain != "" && strings.Contains(result, tt.wantNotContain) {
				t.Errorf("Error() = %q, should not contain %q", result, tt.wantNotContain)
			}
		})
	}
}

func TestErrorWithSuggestion_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrapped := &ErrorWithSuggestion{
		Err:        originalErr,
		Suggestion: "do something",
	}

	unwrapped := wrapped.Unwrap()
	if unwrapped != originalErr {
		t.Errorf("Unwrap() returned %v, want %v", unwrapped, originalErr)
	}

	// Test with errors.Is
	if !errors.Is(wrapped, originalErr) {
		t.Error("errors.Is should work with wrapped error")
	}
}

func TestErrSyncNotEnabled(t *testing.T) {
	err := ErrSyncNotEnabled()

	errStr := err.Error()
	if !strings.Contains(errStr, "sync is not enabled") {
		t.Errorf("Error should mention sync not enabled, got: %s", errStr)
	}
	if !strings.Contains(errStr, "sync enable") {
		t.Errorf("Error should suggest enabling sync, got: %s", errStr)
	}
}

func TestErrNotSignedIn(t *testing.T) {
	err := ErrNotSignedIn()

	errStr := err.Error()
	if !strings.Contains(errStr, "access token") {
		t.Errorf("Error should mention the access token, got: %s", errStr)
	}
	if !strings.Contains(errStr, "credentials set") {
		t.Errorf("Error should suggest storing a token, got: %s", errStr)
	}
}

func TestErrRemoteOffline(t *testing.T) {
	tests := []struct {
		name           string
		reason         string
		wantSuggestion string
	}{
		{
			name:           "DNS error",
			reason:         "DNS resolution failed",
			wantSuggestion: "DNS settings",
		},
		{
			name:           "Connection refused",
			reason:         "connection refused",
			wantSuggestion: "project URL",
		},
		{
			name:           "Timeout",
			reason:         "connection timeout",
			wantSuggestion: "slow or unreachable",
		},
		{
			name:           "Generic error",
			reason:         "unknown error",
			wantSuggestion: "internet connection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ErrRemoteOffline(tt.reason)

			errStr := err.Error()
			if !strings.Contains(errStr, tt.reason) {
				t.Errorf("Error should contain reason, got: %s", errStr)
			}
			if !strings.Contains(errStr, tt.wantSuggestion) {
				t.Errorf("Error should contain suggestion about '%s', got: %s", tt.wantSuggestion, errStr)
			}
		})
	}
}

func TestErrCredentialsNotFound(t *testing.T) {
	err := ErrCredentialsNotFound("access-token")

	errStr := err.Error()
	if !strings.Contains(errStr, "access-token") {
		t.Errorf("Error should contain credential name, got: %s", errStr)
	}
	if !strings.Contains(errStr, "credentials set") {
		t.Errorf("Error should suggest storing the credential, got: %s", errStr)
	}
}

func TestErrAuthenticationFailed(t *testing.T) {
	err := ErrAuthenticationFailed()

	errStr := err.Error()
	if !strings.Contains(errStr, "authentication failed") {
		t.Errorf("Error should mention authentication failure, got: %s", errStr)
	}
	if !strings.Contains(errStr, "credentials set") {
		t.Errorf("Error should suggest refreshing the token, got: %s", errStr)
	}
}

func TestErrInvalidConfig(t *testing.T) {
	err := ErrInvalidConfig("remote.url", "must be a valid URL")

	errStr := err.Error()
	if !strings.Contains(errStr, "remote.url") {
		t.Errorf("Error should contain the field name, got: %s", errStr)
	}
	if !strings.Contains(errStr, "config.yaml") {
		t.Errorf("Error should point at the config file, got: %s", errStr)
	}
}

func TestWrapWithSuggestion(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
		wantNil    bool
	}{
		{
			name:       "wrap error",
			err:        errors.New("original error"),
			suggestion: "try this instead",
			wantNil:    false,
		},
		{
			name:       "wrap nil",
			err:        nil,
			suggestion: "this should not appear",
			wantNil:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapWithSuggestion(tt.err, tt.suggestion)

			if tt.wantNil {
				if result != nil {
					t.Errorf("WrapWithSuggestion(nil, _) should return nil, got %v", result)
				}
				return
			}

			if result == nil {
				t.Fatal("WrapWithSuggestion() returned nil for non-nil error")
			}

			errStr := result.Error()
			if !strings.Contains(errStr, "original error") {
				t.Errorf("Wrapped error should contain original message, got: %s", errStr)
			}
			if !strings.Contains(errStr, tt.suggestion) {
				t.Errorf("Wrapped error should contain suggestion, got: %s", errStr)
			}
		})
	}
}
