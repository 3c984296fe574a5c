package credentials

import "fmt"

// Source indicates where a credential was found
type Source string

const (
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceNone    Source = "none"
)

// Credential represents a resolved secret
type Credential struct {
	Name   string
	Value  string
	Source Source
}

// Resolver handles credential resolution from multiple sources with priority order
type Resolver struct {
	// Priority order: Keyring > Environment Variables > Config value
}

// NewResolver creates a new credential resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve attempts to find a named secret using the priority order:
// 1. OS keyring
// 2. Environment variables (TODOSYNC_{NAME}, .env supported)
// 3. The value carried in the config file, if any
//
// Returns the credential with Source indicating where it was found.
func (r *Resolver) Resolve(name, configValue string) (*Credential, error) {
	if name == "" {
		return nil, fmt.Errorf("credential name is required for resolution")
	}

	if IsAvailable() {
		if value, err := Get(name); err == nil {
			return &Credential{Name: name, Value: value, Source: SourceKeyring}, nil
		}
		// Not found or keyring access issue; fall through to next source
	}

	if value := GetEnv(name); value != "" {
		return &Credential{Name: name, Value: value, Source: SourceEnv}, nil
	}

	if configValue != "" {
		return &Credential{Name: name, Value: configValue, Source: SourceConfig}, nil
	}

	return nil, fmt.Errorf("no credential named %q found (tried: keyring, %s, config file)", name, EnvVarName(name))
}

// AccessToken resolves the Supabase access token. There is no config
// fallback for it; tokens only live in the keyring or the environment.
func (r *Resolver) AccessToken() (string, error) {
	cred, err := r.Resolve(NameAccessToken, "")
	if err != nil {
		return "", err
	}
	return cred.Value, nil
}

// AnonKey resolves the project anon key, preferring the keyring and the
// environment over the value in the config file.
func (r *Resolver) AnonKey(configValue string) (string, error) {
	cred, err := r.Resolve(NameAnonKey, configValue)
	if err != nil {
		return "", err
	}
	return cred.Value, nil
}
