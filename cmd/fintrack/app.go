package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/budget"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/session"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/Veraticus/fintrack/internal/tui/themes"
	"github.com/spf13/cobra"
)

// app owns the long-lived components of one command invocation.
type app struct {
	store   *storage.SQLiteStorage
	client  *api.Client
	session *session.Manager
	prefs   *themes.Preferences
	opts    *rootOptions
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg := opts.cfg

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	client, err := api.New(api.Config{
		BaseURL:   cfg.API.URL,
		Timeout:   cfg.API.Timeout,
		CacheTTL:  cfg.API.CacheTTL,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sess := session.New(store, client)
	client.OnUnauthorized(sess.HandleUnauthorized)

	return &app{
		store:   store,
		client:  client,
		session: sess,
		prefs:   themes.NewPreferences(store),
		opts:    opts,
	}, nil
}

func (a *app) close() {
	a.client.Close()
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close preference store", "error", err)
	}
}

// calculator builds a budget calculator from the rollover settings.
func (a *app) calculator() *budget.Calculator {
	b := a.opts.cfg.Budget
	return budget.NewCalculator(
		budget.WithRollover(budget.Rollover{
			WeeklyDays:    b.WeeklyDays,
			MonthlyMonths: b.MonthlyMonths,
			YearlyYears:   b.YearlyYears,
		}),
		budget.WithRollForward(b.RollForward),
	)
}

// theme resolves the styles for the stored or detected theme.
func (a *app) theme(ctx context.Context) themes.Theme {
	theme, err := a.prefs.Resolve(ctx)
	if err != nil {
		slog.Warn("Failed to read theme preference", "error", err)
	}
	return theme
}

func (a *app) prompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

type runFunc func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error

// run opens the app for the duration of fn.
func (o *rootOptions) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx, o)
		if err != nil {
			return err
		}
		defer a.close()

		return fn(ctx, cmd, args, a)
	}
}

// authed is run for commands that need a signed-in user. The stored
// session is validated against the API first.
func (o *rootOptions) authed(fn runFunc) func(*cobra.Command, []string) error {
	return o.run(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
		if err := a.session.Restore(ctx); err != nil {
			return err
		}
		if !a.session.IsAuthenticated() {
			return fmt.Errorf("%w: no valid session", common.ErrNotAuthenticated)
		}
		return fn(ctx, cmd, args, a)
	})
}
