// Package session owns the signed-in user: it restores a persisted session,
// signs in and out, and tears everything down when the API rejects the token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/Veraticus/fintrack/internal/validate"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// State is where the manager is in the sign-in lifecycle.
type State int

const (
	// Unauthenticated means no usable session exists.
	Unauthenticated State = iota
	// Authenticating means a restore, login or register is in flight.
	Authenticating
	// Authenticated means a user is signed in.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Manager is safe for concurrent use. Its lock is never held across a
// network call.
type Manager struct {
	store service.SessionStore
	api   service.AuthAPI
	group singleflight.Group
	user  *model.User
	token string
	state State
	mu    sync.RWMutex
}

// New creates a manager in the Unauthenticated state. Call Restore to pick up
// a persisted session.
func New(store service.SessionStore, api service.AuthAPI) *Manager {
	return &Manager{store: store, api: api}
}

// Restore validates a persisted token by fetching the current user.
// Concurrent callers share one fetch. A rejected or unreachable session is
// cleared and the manager settles Unauthenticated without returning an error.
func (m *Manager) Restore(ctx context.Context) error {
	_, err, _ := m.group.Do("restore", func() (any, error) {
		return nil, m.restore(ctx)
	})
	return err
}

func (m *Manager) restore(ctx context.Context) error {
	token, err := m.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stored token: %w", err)
	}
	if token == "" {
		m.settle(Unauthenticated, nil, "")
		return nil
	}

	m.setState(Authenticating)

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			m.settle(Unauthenticated, nil, "")
			return ctxErr
		}
		slog.Warn("stored session is no longer valid, signing out", "error", err)
		if clearErr := m.store.ClearSession(ctx); clearErr != nil {
			common.LogError(clearErr, "failed to clear stored session", nil)
		}
		m.settle(Unauthenticated, nil, "")
		return nil
	}

	if err := m.store.SetUser(ctx, user); err != nil {
		common.LogError(err, "failed to refresh stored user", nil)
	}
	m.settle(Authenticated, user, token)
	slog.Debug("session restored", "user_id", user.ID)
	return nil
}

// Login validates req, signs in and persists the session. On failure the
// previous state is kept.
func (m *Manager) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	return m.authenticate(ctx, func(ctx context.Context) (*model.AuthResponse, error) {
		return m.api.Login(ctx, req)
	})
}

// Register validates req, creates the account and signs it in.
func (m *Manager) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	return m.authenticate(ctx, func(ctx context.Context) (*model.AuthResponse, error) {
		return m.api.Register(ctx, req)
	})
}

func (m *Manager) authenticate(ctx context.Context, call func(context.Context) (*model.AuthResponse, error)) (*model.User, error) {
	m.mu.Lock()
	prevState, prevUser, prevToken := m.state, m.user, m.token
	m.state = Authenticating
	m.mu.Unlock()

	resp, err := call(ctx)
	if err != nil {
		m.settle(prevState, prevUser, prevToken)
		return nil, err
	}
	if resp.Token == "" {
		m.settle(prevState, prevUser, prevToken)
		return nil, fmt.Errorf("%w: empty token in auth response", common.ErrUnauthorized)
	}

	user := resp.User
	if err := m.persist(ctx, resp.Token, &user); err != nil {
		if clearErr := m.store.ClearSession(ctx); clearErr != nil {
			common.LogError(clearErr, "failed to clear partial session", nil)
		}
		m.settle(Unauthenticated, nil, "")
		return nil, err
	}

	m.settle(Authenticated, &user, resp.Token)
	common.LogInfo("signed in", common.Fields{"user_id": user.ID})
	return copyUser(&user), nil
}

func (m *Manager) persist(ctx context.Context, token string, user *model.User) error {
	if err := m.store.SetToken(ctx, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := m.store.SetUser(ctx, user); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

// Logout clears the persisted session. The manager is Unauthenticated
// afterwards even when clearing storage fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.settle(Unauthenticated, nil, "")
	if err := m.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// UpdateProfile changes the signed-in user's name or email.
func (m *Manager) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	if !m.IsAuthenticated() {
		return nil, common.ErrNotAuthenticated
	}
	if err := validate.Struct(update); err != nil {
		return nil, err
	}

	user, err := m.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	if err := m.store.SetUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	m.mu.Lock()
	if m.state == Authenticated {
		m.user = copyUser(user)
	}
	m.mu.Unlock()

	return copyUser(user), nil
}

// HandleUnauthorized tears the session down. Register it with the API
// client's OnUnauthorized.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	wasSignedIn := m.state != Unauthenticated
	m.state, m.user, m.token = Unauthenticated, nil, ""
	m.mu.Unlock()

	if err := m.store.ClearSession(context.Background()); err != nil {
		common.LogError(err, "failed to clear rejected session", nil)
	}
	if wasSignedIn {
		slog.Warn("session expired or was revoked")
	}
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyUser(m.user)
}

// IsAuthenticated reports whether a user is signed in.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// ErrNoExpiry is returned by TokenExpiry for tokens without an exp claim.
var ErrNoExpiry = errors.New("token carries no expiry")

// TokenExpiry reads the exp claim of the current token without verifying
// its signature. Opaque tokens return ErrNoExpiry.
func (m *Manager) TokenExpiry() (time.Time, error) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()

	if token == "" {
		return time.Time{}, common.ErrNotAuthenticated
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, ErrNoExpiry
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Manager) settle(s State, user *model.User, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state, m.user, m.token = s, copyUser(user), token
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
