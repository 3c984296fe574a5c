package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"todosync/internal/config"
	"todosync/internal/credentials"
	"todosync/internal/utils"
	"todosync/remote"
	"todosync/store"
	"todosync/sync"
)

// openStore opens the local database at the configured path, expanding ~
// and environment variables. An empty path selects the XDG default.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.DBPath
	if path != "" {
		expanded, err := utils.ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("invalid db_path %q: %w", path, err)
		}
		path = expanded
	}
	return store.Open(path)
}

// resolveAnonKey resolves the project anon key, preferring keyring and
// environment over the value in the config file.
func resolveAnonKey(cfg *config.Config) (string, error) {
	key, err := credentials.NewResolver().AnonKey(cfg.Remote.AnonKey)
	if err != nil {
		return "", utils.ErrCredentialsNotFound(credentials.NameAnonKey)
	}
	return key, nil
}

// resolveRemote builds the REST gateway and resolves the secrets it needs.
// Returns the gateway and the access token to authenticate requests with.
func resolveRemote(cfg *config.Config) (*remote.Client, string, error) {
	anonKey, err := resolveAnonKey(cfg)
	if err != nil {
		return nil, "", err
	}

	accessToken, err := credentials.NewResolver().AccessToken()
	if err != nil {
		return nil, "", utils.ErrNotSignedIn()
	}

	return remote.NewClient(cfg.Remote.URL, anonKey), accessToken, nil
}

// newCoordinator wires the store and gateway into a sync coordinator
func newCoordinator(cfg *config.Config, s *store.Store, gateway sync.Gateway) *sync.Coordinator {
	return sync.NewCoordinator(s, gateway, cfg.Remote.UserID, utils.ComponentLogger("[sync] "))
}

// requireSyncEnabled errors out when the user has not opted in to syncing
func requireSyncEnabled(s *store.Store) error {
	enabled, err := s.SyncEnabled()
	if err != nil {
		return err
	}
	if !enabled {
		return utils.ErrSyncNotEnabled()
	}
	return nil
}

// offlineReason classifies a network error, or returns "" for non-network
// failures that should surface as-is.
func offlineReason(err error) string {
	if err == nil {
		return ""
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS resolution failed"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "connection refused"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "connection timeout"
		}
		return "network unreachable"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "connection timeout"
	}

	return ""
}
