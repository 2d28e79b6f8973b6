package main

import (
	"context"
	"os"

	"github.com/Veraticus/fintrack/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func browseCmd(opts *rootOptions) *cobra.Command {
	var pageSize int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse transactions interactively",
		Long: `Open a full-screen browser over your transactions.

Keys: / search, t cycle type, c cycle category, x clear filters,
n/p next and previous page, r refresh, ? help, q quit.`,
		Args: cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, _ *cobra.Command, _ []string, a *app) error {
			tuiOpts := []tui.Option{
				tui.WithTheme(a.theme(ctx)),
				tui.WithPageSize(pageSize),
			}
			if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				tuiOpts = append(tuiOpts, tui.WithSize(width, height))
			}
			return tui.Run(ctx, a.client, tuiOpts...)
		}),
	}

	cmd.Flags().IntVar(&pageSize, "page-size", tui.DefaultPageSize, "transactions per page")

	return cmd
}
