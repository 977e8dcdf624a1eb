package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/primal-host/primal-folio/internal/client"
	"github.com/primal-host/primal-folio/internal/credential"
	"github.com/primal-host/primal-folio/internal/logging"
)

// Gate checks and rotates the admin password on behalf of the Store.
// Login returns an opaque session value that Resume accepts later.
type Gate interface {
	Login(ctx context.Context, password string) (session string, err error)
	Resume(session string)
	Logout()
	ChangePassword(ctx context.Context, current, next string) error
}

// RemoteGate authenticates against the Content API. The session value
// is the API session token. Mirror, when set, tracks the last password
// known to be valid so LocalGate can take over offline.
type RemoteGate struct {
	Client *client.Client
	Mirror *credential.Memory
}

// Login exchanges password for a session token. A rejected or missing
// password is reported as credential.ErrInvalidPassword.
func (g RemoteGate) Login(ctx context.Context, password string) (string, error) {
	tok, err := g.Client.Login(ctx, password)
	if client.IsStatus(err, http.StatusBadRequest) {
		return "", fmt.Errorf("%w: %v", credential.ErrInvalidPassword, err)
	}
	if err != nil {
		return "", remoteCredentialError(err)
	}
	if g.Mirror != nil {
		if err := g.Mirror.Reset(ctx, password); err != nil {
			logging.Debug().Err(err).Msg("admin: update credential mirror")
		}
	}
	return tok.Token, nil
}

// Resume reuses a token from an earlier Login.
func (g RemoteGate) Resume(session string) { g.Client.SetToken(session) }

// Logout drops the token held by the client.
func (g RemoteGate) Logout() { g.Client.SetToken("") }

// ChangePassword rotates the remote credential, then the mirror.
func (g RemoteGate) ChangePassword(ctx context.Context, current, next string) error {
	if err := g.Client.ChangePassword(ctx, current, next); err != nil {
		return remoteCredentialError(err)
	}
	if g.Mirror != nil {
		if err := g.Mirror.Reset(ctx, next); err != nil {
			logging.Debug().Err(err).Msg("admin: update credential mirror")
		}
	}
	return nil
}

// remoteCredentialError maps API statuses onto the credential sentinels.
// A 400 is only a length rejection on the change-password route.
func remoteCredentialError(err error) error {
	switch {
	case client.IsStatus(err, http.StatusUnauthorized):
		return fmt.Errorf("%w: %v", credential.ErrInvalidPassword, err)
	case client.IsStatus(err, http.StatusBadRequest):
		return fmt.Errorf("%w: %v", credential.ErrPasswordTooShort, err)
	case client.IsStatus(err, http.StatusNotFound):
		return fmt.Errorf("%w: %v", credential.ErrNotConfigured, err)
	}
	return err
}

// localSession is the session value handed out by LocalGate.
const localSession = "local"

// LocalGate checks the password against an in-process hash. It is the
// degraded mode used when the API is unavailable; content writes still
// need the API.
type LocalGate struct {
	Credentials *credential.Memory
}

// Login verifies password locally.
func (g LocalGate) Login(ctx context.Context, password string) (string, error) {
	if err := g.Credentials.Authenticate(ctx, password); err != nil {
		return "", err
	}
	return localSession, nil
}

func (LocalGate) Resume(string) {}
func (LocalGate) Logout()       {}

// ChangePassword rotates the local hash.
func (g LocalGate) ChangePassword(ctx context.Context, current, next string) error {
	return g.Credentials.Change(ctx, current, next)
}

// Marker persists the session value between runs.
type Marker interface {
	Load() (string, error)
	Save(session string) error
	Clear() error
}

// MemoryMarker keeps the session for the life of the process.
type MemoryMarker struct {
	mu      sync.Mutex
	session string
}

func (m *MemoryMarker) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *MemoryMarker) Save(session string) error {
	m.mu.Lock()
	m.session = session
	m.mu.Unlock()
	return nil
}

func (m *MemoryMarker) Clear() error { return m.Save("") }

// FileMarker stores the session in a file readable only by the owner.
type FileMarker struct {
	Path string
}

// Load returns "" when the file does not exist.
func (f FileMarker) Load() (string, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("admin: read session: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (f FileMarker) Save(session string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("admin: create session dir: %w", err)
	}
	if err := os.WriteFile(f.Path, []byte(session+"\n"), 0o600); err != nil {
		return fmt.Errorf("admin: write session: %w", err)
	}
	return nil
}

// Clear removes the file; a missing file is not an error.
func (f FileMarker) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("admin: remove session: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

func (s *Store) setAuthenticated(v bool) {
	s.mu.Lock()
	s.authed = v
	s.mu.Unlock()
}

// Login checks password through the Gate. It reports false with a nil
// error when the password is rejected; err is set only when the check
// itself could not be made, for example because the API is unreachable.
func (s *Store) Login(ctx context.Context, password string) (bool, error) {
	session, err := s.gate.Login(ctx, password)
	if errors.Is(err, credential.ErrInvalidPassword) {
		s.setAuthenticated(false)
		return false, nil
	}
	if err != nil {
		s.setAuthenticated(false)
		return false, err
	}

	s.setAuthenticated(true)
	if err := s.marker.Save(session); err != nil {
		logging.Warn().Err(err).Msg("admin: persist session")
	}
	return true, nil
}

// Restore resumes a session saved by an earlier Login. It reports
// whether one was found.
func (s *Store) Restore() (bool, error) {
	session, err := s.marker.Load()
	if err != nil {
		return false, err
	}
	if session == "" {
		return false, nil
	}
	s.gate.Resume(session)
	s.setAuthenticated(true)
	return true, nil
}

// Logout ends the session and clears the persisted marker.
func (s *Store) Logout() error {
	s.setAuthenticated(false)
	s.gate.Logout()
	return s.marker.Clear()
}

// ChangePassword rotates the admin password. next must be at least
// credential.MinPasswordLength characters; current must pass the Gate.
func (s *Store) ChangePassword(ctx context.Context, current, next string) error {
	if err := credential.CheckLength(next); err != nil {
		return err
	}
	unlock, err := s.mutate()
	if err != nil {
		return err
	}
	defer unlock()
	return s.gate.ChangePassword(ctx, current, next)
}
