package tui

import (
	"github.com/Veraticus/fintrack/internal/tui/themes"
)

// DefaultPageSize is the number of transactions per page.
const DefaultPageSize = 10

// Config holds browser configuration.
type Config struct {
	Theme    themes.Theme
	Width    int
	Height   int
	PageSize int
}

// Option is a functional option for configuring the browser.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:    themes.Dark,
		Width:    100,
		Height:   30,
		PageSize: DefaultPageSize,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithPageSize sets how many transactions a page shows.
func WithPageSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.PageSize = size
		}
	}
}
