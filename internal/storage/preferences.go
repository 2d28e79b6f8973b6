package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
)

// Preference keys.
const (
	KeyToken = "@fintrack:token"
	KeyUser  = "@fintrack:user"
	KeyTheme = "@fintrack:theme"
)

// Token returns the persisted bearer token, or "" when none is stored.
func (s *SQLiteStorage) Token(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyToken)
}

// SetToken persists the bearer token.
func (s *SQLiteStorage) SetToken(ctx context.Context, token string) error {
	if err := validateString(token, "token"); err != nil {
		return err
	}
	return s.Set(ctx, KeyToken, token)
}

// RemoveToken deletes the persisted token.
func (s *SQLiteStorage) RemoveToken(ctx context.Context) error {
	return s.Delete(ctx, KeyToken)
}

// User returns the persisted user, or nil when none is stored. A value that
// no longer decodes yields an error wrapping common.ErrSessionCorrupted.
func (s *SQLiteStorage) User(ctx context.Context) (*model.User, error) {
	raw, err := s.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Debug("stored user does not decode", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrSessionCorrupted, err)
	}
	return &user, nil
}

// SetUser persists user as JSON.
func (s *SQLiteStorage) SetUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.Set(ctx, KeyUser, string(data))
}

// RemoveUser deletes the persisted user.
func (s *SQLiteStorage) RemoveUser(ctx context.Context) error {
	return s.Delete(ctx, KeyUser)
}

// Theme returns the stored theme, or "" when none is stored.
func (s *SQLiteStorage) Theme(ctx context.Context) (model.Theme, error) {
	raw, err := s.Get(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	theme := model.Theme(raw)
	if raw != "" && !theme.Valid() {
		slog.Debug("ignoring unknown stored theme", "theme", raw)
		return "", nil
	}
	return theme, nil
}

// SetTheme persists the theme preference.
func (s *SQLiteStorage) SetTheme(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.Set(ctx, KeyTheme, string(theme))
}

// ClearSession removes the token and user together. The theme is kept.
func (s *SQLiteStorage) ClearSession(ctx context.Context) error {
	return s.Delete(ctx, KeyToken, KeyUser)
}

// ClearAll removes every fintrack key, theme included.
func (s *SQLiteStorage) ClearAll(ctx context.Context) error {
	return s.Delete(ctx, KeyToken, KeyUser, KeyTheme)
}
