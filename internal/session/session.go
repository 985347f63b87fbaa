package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nyacdn/cdnctl/internal/api"
)

const (
	configDirName = "cdnctl"
	stateFile     = "state.json"
)

// ErrUnauthenticated means there is no usable token: either none was ever
// stored, or the backend rejected the one we had. Callers should drop to the
// login flow instead of showing stale data.
var ErrUnauthenticated = errors.New("not authenticated")

// state is the only client data persisted across runs.
type state struct {
	AuthToken string `json:"auth_token"`
}

// Store holds the process-wide bearer token and the derived current-user
// info. The token is read once from disk at construction; login and logout
// are the only writers.
type Store struct {
	mu    sync.Mutex
	path  string
	token string
	self  *api.User
}

// configDir returns the base config directory (~/.config/cdnctl/).
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return filepath.Join(xdgConfig, configDirName), nil
}

// Load reads the persisted session from the default config directory.
// A missing state file is a valid logged-out session, not an error.
func Load() (*Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, stateFile))
}

// LoadFrom reads the persisted session from an explicit path.
func LoadFrom(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read session state: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse session state: %w", err)
	}
	s.token = st.AuthToken
	return s, nil
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// LoggedIn reports whether a token is present. It says nothing about whether
// the backend still accepts it.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// SetToken stores and persists a freshly issued token.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.self = nil
	return s.persist()
}

// Clear drops the token and cached self info, on logout or auth failure.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.self = nil
	return s.persist()
}

func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(state{AuthToken: s.token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}

// SelfInfo returns the account behind the current token, fetching it once and
// caching it for the life of the session. Any fetch failure is treated as an
// authentication failure: the token is cleared so dependent views fall back
// to the unauthenticated state rather than render stale data.
func (s *Store) SelfInfo(ctx context.Context, client *api.Client) (*api.User, error) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return nil, ErrUnauthenticated
	}
	if s.self != nil {
		self := s.self
		s.mu.Unlock()
		return self, nil
	}
	s.mu.Unlock()

	self, err := client.SelfInfo(ctx)
	if err != nil {
		if clearErr := s.Clear(); clearErr != nil {
			return nil, fmt.Errorf("%w: %s (clear session: %s)", ErrUnauthenticated, err, clearErr)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnauthenticated, err)
	}

	s.mu.Lock()
	s.self = self
	s.mu.Unlock()
	return self, nil
}

// InvalidateSelf drops the cached self info so the next SelfInfo call
// refetches, e.g. after the current user renames their own account.
func (s *Store) InvalidateSelf() {
	s.mu.Lock()
	s.self = nil
	s.mu.Unlock()
}
