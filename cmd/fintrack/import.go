package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/ofx"
	"github.com/Veraticus/fintrack/internal/validate"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd(opts *rootOptions) *cobra.Command {
	var (
		incomeCategory  string
		expenseCategory string
		account         string
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.

Debits become expenses and credits become income. Each imported
transaction keeps the bank's FITID in its notes. Failed lines are
reported and skipped; nothing is retried.

Examples:
  # Import a single file
  fintrack transactions import ~/Downloads/checking_jan_2024.qfx --expense-category Food --income-category Salary

  # Preview every statement in a directory
  fintrack transactions import ~/Downloads/*.qfx --expense-category 2 --income-category 1 --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			incomeID, err := resolveCategory(ctx, a.client, incomeCategory, model.TransactionTypeIncome)
			if err != nil {
				return err
			}
			expenseID, err := resolveCategory(ctx, a.client, expenseCategory, model.TransactionTypeExpense)
			if err != nil {
				return err
			}

			entries, err := parseStatements(ctx, ofx.NewParser(incomeID, expenseID), files, account)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				writeln(out, cli.FormatWarning("No transactions found to import."))
				if account != "" {
					if accounts := statementAccounts(files); len(accounts) > 0 {
						writeln(out, cli.SubtleStyle.Render("Accounts in these files: "+strings.Join(accounts, ", ")))
					}
				}
				return nil
			}

			if dryRun {
				previewEntries(out, entries)
				writeln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be imported.", len(entries))))
				return nil
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Transactions imported so far were kept.")
			ctx, stop := handler.HandleInterrupts(ctx)
			defer stop()

			result := postEntries(ctx, a, entries, cmd.ErrOrStderr())
			reportImport(out, result, len(entries))

			if result.authLost {
				return result.failures[len(result.failures)-1].err
			}
			if handler.WasInterrupted() {
				return context.Canceled
			}
			if len(result.failures) > 0 {
				return common.NewUserError(fmt.Sprintf("%d of %d transactions failed to import", len(result.failures), len(entries)), nil)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&incomeCategory, "income-category", "", "category id or name for credits")
	cmd.Flags().StringVar(&expenseCategory, "expense-category", "", "category id or name for debits")
	cmd.Flags().StringVar(&account, "account", "", "only import this account id")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without creating transactions")
	_ = cmd.MarkFlagRequired("income-category")
	_ = cmd.MarkFlagRequired("expense-category")

	return cmd
}

// expandFiles resolves glob patterns. Patterns without matches are kept
// when they name an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrNotFound)
	}
	return files, nil
}

// parseStatements parses every file, dropping lines already seen in an
// earlier file (same account and FITID).
func parseStatements(ctx context.Context, parser *ofx.Parser, files []string, account string) ([]ofx.Entry, error) {
	seen := make(map[string]bool)
	var entries []ofx.Entry

	for _, path := range files {
		parsed, err := parseStatement(ctx, parser, path)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, e := range parsed {
			if account != "" && e.AccountID != account {
				continue
			}
			key := e.AccountID + "/" + e.FITID
			if e.FITID != "" && seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, e)
			added++
		}

		slog.Info("Parsed statement",
			"file", filepath.Base(path),
			"transactions_found", len(parsed),
			"added", added)
	}

	return entries, nil
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's own arguments
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Failed to close statement", "file", path, "error", cerr)
		}
	}()

	entries, err := parser.ParseFile(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// statementAccounts lists the accounts across files. Unreadable files are
// skipped.
func statementAccounts(files []string) []string {
	var accounts []string
	for _, path := range files {
		data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own arguments
		if err != nil {
			continue
		}
		ids, err := ofx.Accounts(bytes.NewReader(data))
		if err != nil {
			continue
		}
		accounts = append(accounts, ids...)
	}
	slices.Sort(accounts)
	return slices.Compact(accounts)
}

func previewEntries(out io.Writer, entries []ofx.Entry) {
	w := newTable(out)
	printf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Date"),
		cli.TableHeaderStyle.Render("Description"),
		cli.TableHeaderStyle.Render("Account"),
		cli.TableHeaderStyle.Render("Amount"))
	for _, e := range entries {
		r := e.Request
		printf(w, "%s\t%s\t%s\t%s\n",
			cli.FormatDate(r.Date),
			cli.Truncate(r.Description, 40),
			e.AccountID,
			cli.FormatSignedCurrency(r.Amount, r.Type))
	}
	if err := w.Flush(); err != nil {
		slog.Warn("Failed to write table", "error", err)
	}
}

type importFailure struct {
	err   error
	entry ofx.Entry
}

type importResult struct {
	failures []importFailure
	imported int
	// authLost is set when the session ended mid-import.
	authLost bool
}

// postEntries creates entries one at a time. A failed entry is recorded and
// the rest continue; cancellation stops before the next entry.
func postEntries(ctx context.Context, a *app, entries []ofx.Entry, progressOut io.Writer) importResult {
	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(progressOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(progressOut); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	var result importResult
	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}

		err := validate.Struct(e.Request)
		if err == nil {
			_, err = a.client.CreateTransaction(ctx, e.Request)
		}
		switch {
		case err == nil:
			result.imported++
		case errors.Is(err, context.Canceled):
		case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrNotAuthenticated):
			result.failures = append(result.failures, importFailure{entry: e, err: err})
			result.authLost = true
			return result
		default:
			common.LogError(err, "Failed to import transaction", common.Fields{"fitid": e.FITID, "account": e.AccountID})
			result.failures = append(result.failures, importFailure{entry: e, err: err})
		}

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
	return result
}

func reportImport(out io.Writer, result importResult, total int) {
	writeln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d of %d transactions", result.imported, total)))
	for _, f := range result.failures {
		writeln(out, cli.FormatError(fmt.Sprintf("%s %s: %s",
			cli.FormatDate(f.entry.Request.Date), f.entry.Request.Description, describeError(f.err))))
	}
}
