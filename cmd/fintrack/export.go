package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/spf13/cobra"
)

var csvHeader = []string{
	"id",
	"date",
	"description",
	"type",
	"amount",
	"category_id",
	"category",
	"notes",
	"recurring",
}

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		filters filterFlags
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions as CSV",
		Long: `Write every transaction matching the filters as CSV, to a file or stdout.

For a spreadsheet report see 'fintrack reports export-sheets'.`,
		Args: cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			filter, err := filters.build(ctx, a)
			if err != nil {
				return err
			}

			txns, err := a.client.ListAllTransactions(ctx, filter)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return writeTransactionsCSV(cmd.OutOrStdout(), txns)
			}

			f, err := os.Create(output) //nolint:gosec // output path chosen by the user
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := writeTransactionsCSV(f, txns); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", output, err)
			}

			slog.Info("Exported transactions", "file", output, "count", len(txns))
			writeln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", len(txns), output)))
			return nil
		}),
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")

	return cmd
}

func writeTransactionsCSV(w io.Writer, txns []model.Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range txns {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Date.String(),
			t.Description,
			string(t.Type),
			t.Amount.StringFixed(2),
			strconv.FormatInt(t.CategoryID(), 10),
			t.Category.Name,
			t.Notes,
			strconv.FormatBool(t.Recurring),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
