package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/config"
	"github.com/Veraticus/fintrack/internal/validate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// rootOptions is shared by every command.
type rootOptions struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "fintrack",
		Short: "💰 Personal finance tracker",
		Long: `fintrack: track income, expenses and budgets from the terminal.

Talks to a fintrack API server. Sign in with 'fintrack auth login' first.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.initConfig,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: $HOME/.config/fintrack/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("api-url", "", "API base URL (overrides config)")

	_ = opts.v.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = opts.v.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(authCmd(opts))
	cmd.AddCommand(transactionsCmd(opts))
	cmd.AddCommand(categoriesCmd(opts))
	cmd.AddCommand(budgetsCmd(opts))
	cmd.AddCommand(reportsCmd(opts))
	cmd.AddCommand(themeCmd(opts))
	cmd.AddCommand(browseCmd(opts))
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(describeError(err)))
		os.Exit(1)
	}
}

func (o *rootOptions) initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		o.v.AddConfigPath(fmt.Sprintf("%s/.config/fintrack", home))
		o.v.AddConfigPath(".")
		o.v.SetConfigName("config")
		o.v.SetConfigType("yaml")
	}

	config.SetDefaults(o.v)
	config.BindEnv(o.v)

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if url, _ := cmd.Flags().GetString("api-url"); url != "" {
		o.v.Set("api.url", url)
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level, err := common.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := common.SetupLogger(level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// describeError turns err into the single line shown to the user.
func describeError(err error) string {
	var (
		userErr *common.UserError
		verrs   validate.ValidationErrors
		apiErr  *api.Error
	)

	switch {
	case errors.As(err, &userErr):
		return userErr.UserMessage
	case errors.As(err, &verrs):
		return "Invalid input: " + verrs.Error()
	case errors.Is(err, common.ErrNotAuthenticated):
		return "You are not signed in. Run 'fintrack auth login' first."
	case errors.Is(err, common.ErrUnauthorized):
		return "Your session has expired. Run 'fintrack auth login' to sign in again."
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	}
	return err.Error()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			printf(cmd.OutOrStdout(), "fintrack %s\n", version)
		},
	}
}

// printf writes to w, logging rather than failing when the write fails.
func printf(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

func writeln(w io.Writer, args ...any) {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}
