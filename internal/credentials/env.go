package credentials

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotEnv loads a .env file from the working directory, once per process.
// A missing file is not an error; shell environment always wins.
func LoadDotEnv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

// EnvVarName returns the environment variable name for a credential.
// Example: "access-token" becomes "TODOSYNC_ACCESS_TOKEN".
func EnvVarName(name string) string {
	normalized := strings.ToUpper(name)
	normalized = strings.ReplaceAll(normalized, "-", "_")
	return "TODOSYNC_" + normalized
}

// GetEnv retrieves a named credential from environment variables.
// Looks for: TODOSYNC_{NAME}
func GetEnv(name string) string {
	if name == "" {
		return ""
	}
	LoadDotEnv()
	return os.Getenv(EnvVarName(name))
}

// HasEnv checks if a credential exists in environment variables
func HasEnv(name string) bool {
	return GetEnv(name) != ""
}
