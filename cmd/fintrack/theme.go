package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/spf13/cobra"
)

func themeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the color theme",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the active theme",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			current, err := a.prefs.Current(ctx)
			if err != nil {
				return err
			}
			stored, err := a.store.Theme(ctx)
			if err != nil {
				return err
			}

			source := "detected from terminal"
			if stored.Valid() {
				source = "saved"
			}
			writeln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Theme: %s (%s)", current, source)))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Save a theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark)},
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			if err := a.prefs.Set(ctx, model.Theme(args[0])); err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Theme set to %s", args[0])))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			next, err := a.prefs.Toggle(ctx)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Theme set to %s", next)))
			return nil
		}),
	})

	return cmd
}
