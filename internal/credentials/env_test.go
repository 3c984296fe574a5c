package credentials

import "testing"

func TestEnvVarName(t *testing.T) {
	tests := []struct {
		name     string
		credName string
		want     string
	}{
		{
			name:     "access token",
			credName: "access-token",
			want:     "TODOSYNC_ACCESS_TOKEN",
		},
		{
			name:     "anon key",
			credName: "anon-key",
			want:     "TODOSYNC_ANON_KEY",
		},
		{
			name:     "already uppercase",
			credName: "TOKEN",
			want:     "TODOSYNC_TOKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnvVarName(tt.credName)
			if got != tt.want {
				t.Errorf("EnvVarName(%q) = %q, want %q", tt.credName, got, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TODOSYNC_ACCESS_TOKEN", "token-from-env")

	if got := GetEnv(NameAccessToken); got != "token-from-env" {
		t.Errorf("GetEnv(%q) = %q, want %q", NameAccessToken, got, "token-from-env")
	}

	if got := GetEnv(""); got != "" {
		t.Errorf("GetEnv(\"\") = %q, want empty", got)
	}
}

func TestHasEnv(t *testing.T) {
	t.Setenv("TODOSYNC_ANON_KEY", "key-from-env")

	if !HasEnv(NameAnonKey) {
		t.Error("HasEnv should be true when the variable is set")
	}
	if HasEnv("missing-secret") {
		t.Error("HasEnv should be false for unset variables")
	}
}
