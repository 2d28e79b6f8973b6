// Package themes holds the light and dark color schemes and the persisted
// theme preference.
package themes

import (
	"context"
	"fmt"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/charmbracelet/lipgloss"
)

// Preferences reads and writes the theme preference.
type Preferences struct {
	store service.ThemeStore
	// detect reports whether the terminal background is dark.
	detect func() bool
}

// NewPreferences creates preferences backed by store. Without a stored
// choice the terminal background decides.
func NewPreferences(store service.ThemeStore) *Preferences {
	return &Preferences{store: store, detect: lipgloss.HasDarkBackground}
}

// WithDetector replaces terminal background detection.
func (p *Preferences) WithDetector(detect func() bool) *Preferences {
	p.detect = detect
	return p
}

// Current returns the effective theme choice.
func (p *Preferences) Current(ctx context.Context) (model.Theme, error) {
	theme, err := p.store.Theme(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read theme: %w", err)
	}
	if theme.Valid() {
		return theme, nil
	}
	if p.detect() {
		return model.ThemeDark, nil
	}
	return model.ThemeLight, nil
}

// Set persists theme.
func (p *Preferences) Set(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: unknown theme %q, want light or dark", common.ErrInvalidInput, theme)
	}
	return p.store.SetTheme(ctx, theme)
}

// Toggle flips the effective theme and persists the result.
func (p *Preferences) Toggle(ctx context.Context) (model.Theme, error) {
	current, err := p.Current(ctx)
	if err != nil {
		return "", err
	}
	next := current.Toggle()
	if err := p.store.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

// Resolve returns the styles for the effective theme.
func (p *Preferences) Resolve(ctx context.Context) (Theme, error) {
	current, err := p.Current(ctx)
	if err != nil {
		return Dark, err
	}
	return For(current), nil
}

// For returns the styles for theme. Anything but light is dark.
func For(theme model.Theme) Theme {
	if theme == model.ThemeLight {
		return Light
	}
	return Dark
}
