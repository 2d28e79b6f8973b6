package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/config"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/sheets"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func reportsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Monthly summaries, category breakdowns and trends",
	}

	cmd.AddCommand(monthSummaryCmd(opts))
	cmd.AddCommand(categorySummaryCmd(opts))
	cmd.AddCommand(evolutionCmd(opts))
	cmd.AddCommand(overviewCmd(opts))
	cmd.AddCommand(exportSheetsCmd(opts))

	return cmd
}

// signedPercent renders a month-over-month change such as +12.5%.
func signedPercent(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + cli.FormatPercent(d)
	}
	return cli.FormatPercent(d)
}

func monthSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "month-summary",
		Short: "This month's income, expenses and balance",
		Args:  cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			s, err := a.client.MonthSummary(ctx)
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Income:   %s\n", cli.SuccessStyle.Render(cli.FormatCurrency(s.TotalIncome)))
			fmt.Fprintf(&b, "Expenses: %s\n", cli.ErrorStyle.Render(cli.FormatCurrency(s.TotalExpense)))
			fmt.Fprintf(&b, "Balance:  %s", cli.BoldStyle.Render(cli.FormatCurrency(s.Balance)))
			if c := s.Comparison; c != nil {
				fmt.Fprintf(&b, "\n\nvs last month: income %s, expenses %s, balance %s",
					signedPercent(c.IncomeChange), signedPercent(c.ExpenseChange), signedPercent(c.BalanceChange))
			}

			writeln(cmd.OutOrStdout(), cli.RenderBox(cli.ChartIcon+" "+cli.FormatMonth(s.Month), b.String()))
			return nil
		}),
	}
}

func categorySummaryCmd(opts *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "category-summary",
		Short: "Spending per category for a month",
		Args:  cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			if month != "" {
				if _, err := time.Parse("2006-01", month); err != nil {
					return common.NewUserError(fmt.Sprintf("%q is not a month, want YYYY-MM", month), common.ErrInvalidInput)
				}
			}

			summaries, err := a.client.CategorySummary(ctx, month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				writeln(out, cli.InfoStyle.Render("No spending recorded for this month."))
				return nil
			}
			renderCategorySummaries(out, summaries)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month, YYYY-MM (default current)")

	return cmd
}

func renderCategorySummaries(out io.Writer, summaries []model.CategorySummary) {
	w := newTable(out)
	printf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Spent"),
		cli.TableHeaderStyle.Render("Share"),
		cli.TableHeaderStyle.Render("Transactions"))
	for _, s := range summaries {
		printf(w, "%s\t%s\t%s\t%d\n",
			s.CategoryName, cli.FormatCurrency(s.TotalAmount), cli.FormatPercent(s.Percentage), s.TransactionCount)
	}
	if err := w.Flush(); err != nil {
		slog.Warn("Failed to write table", "error", err)
	}
}

func evolutionCmd(opts *rootOptions) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "evolution",
		Short: "Income and expenses month by month",
		Args:  cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			points, err := a.client.MonthlyEvolution(ctx, months)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(points) == 0 {
				writeln(out, cli.InfoStyle.Render("No history yet."))
				return nil
			}

			w := newTable(out)
			printf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Month"),
				cli.TableHeaderStyle.Render("Income"),
				cli.TableHeaderStyle.Render("Expenses"),
				cli.TableHeaderStyle.Render("Balance"))
			for _, p := range points {
				printf(w, "%s\t%s\t%s\t%s\n",
					cli.FormatMonth(p.Month),
					cli.FormatCurrency(p.Income),
					cli.FormatCurrency(p.Expense),
					cli.StyleAmount(cli.FormatCurrency(p.Balance), p.Balance.IsNegative()))
			}
			if err := w.Flush(); err != nil {
				slog.Warn("Failed to write table", "error", err)
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&months, "months", "n", 12, "how many months to show")

	return cmd
}

func overviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Dashboard: this month, all time, top categories and recent activity",
		Args:  cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			o, err := a.client.FinancialOverview(ctx)
			if err != nil {
				return err
			}
			renderOverview(cmd.OutOrStdout(), o)
			return nil
		}),
	}
}

func renderOverview(out io.Writer, o *model.FinancialOverview) {
	current := fmt.Sprintf("Income:   %s\nExpenses: %s\nBalance:  %s",
		cli.SuccessStyle.Render(cli.FormatCurrency(o.CurrentMonth.TotalIncome)),
		cli.ErrorStyle.Render(cli.FormatCurrency(o.CurrentMonth.TotalExpense)),
		cli.BoldStyle.Render(cli.FormatCurrency(o.CurrentMonth.Balance)))
	writeln(out, cli.RenderBox("This month", current))

	allTime := fmt.Sprintf("Income:   %s\nExpenses: %s\nBalance:  %s",
		cli.FormatCurrency(o.TotalAllTime.Income),
		cli.FormatCurrency(o.TotalAllTime.Expense),
		cli.FormatCurrency(o.TotalAllTime.Balance))
	writeln(out, cli.RenderBox("All time", allTime))

	if len(o.TopCategories) > 0 {
		writeln(out, cli.FormatTitle("Top categories"))
		w := newTable(out)
		for _, c := range o.TopCategories {
			printf(w, "%s\t%s\t%s\n", c.CategoryName, cli.FormatCurrency(c.Amount), cli.FormatPercent(c.Percentage))
		}
		if err := w.Flush(); err != nil {
			slog.Warn("Failed to write table", "error", err)
		}
	}

	if len(o.RecentTransactions) > 0 {
		writeln(out, "")
		writeln(out, cli.FormatTitle("Recent transactions"))
		w := newTable(out)
		for _, t := range o.RecentTransactions {
			printf(w, "%s\t%s\t%s\t%s\n",
				cli.FormatDate(t.Date),
				cli.Truncate(t.Description, 40),
				t.CategoryName,
				cli.StyleAmount(cli.FormatSignedCurrency(t.Amount, t.Type), t.Type == model.TransactionTypeExpense))
		}
		if err := w.Flush(); err != nil {
			slog.Warn("Failed to write table", "error", err)
		}
	}
}

func exportSheetsCmd(opts *rootOptions) *cobra.Command {
	var (
		month  string
		months int
	)

	cmd := &cobra.Command{
		Use:   "export-sheets",
		Short: "Write the reports to a Google Sheets spreadsheet",
		Long: `Write overview, monthly evolution, category summary and budget progress tabs
to a Google Sheets spreadsheet. Existing tab contents are replaced.

Configure credentials under 'sheets' in the config file or with
GOOGLE_SHEETS_* environment variables: either a service account key file
or an OAuth2 client id, secret and refresh token.`,
		Args: cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			sheetsCfg, err := config.LoadSheetsConfig(opts.v)
			if err != nil {
				return common.NewUserError("Google Sheets is not configured: "+err.Error(), err)
			}

			report, err := buildReport(ctx, a, month, months)
			if err != nil {
				return err
			}

			writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
			if err != nil {
				return err
			}
			return exportReport(ctx, cmd.OutOrStdout(), writer, report)
		}),
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month for the category tab, YYYY-MM (default current)")
	cmd.Flags().IntVarP(&months, "months", "n", 12, "months of history in the evolution tab")

	return cmd
}

func buildReport(ctx context.Context, a *app, month string, months int) (*sheets.Report, error) {
	overview, err := a.client.FinancialOverview(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := a.client.MonthSummary(ctx)
	if err != nil {
		return nil, err
	}
	evolution, err := a.client.MonthlyEvolution(ctx, months)
	if err != nil {
		return nil, err
	}
	categories, err := a.client.CategorySummary(ctx, month)
	if err != nil {
		return nil, err
	}
	progress, err := a.client.BudgetProgress(ctx)
	if err != nil {
		return nil, err
	}

	if month == "" {
		month = summary.Month
	}

	return &sheets.Report{
		GeneratedAt:  time.Now(),
		Overview:     overview,
		MonthSummary: summary,
		Month:        month,
		Evolution:    evolution,
		Categories:   categories,
		Budgets:      progress,
	}, nil
}

func exportReport(ctx context.Context, out io.Writer, writer sheets.ReportWriter, report *sheets.Report) error {
	if err := writer.Write(ctx, report); err != nil {
		return fmt.Errorf("failed to export to Google Sheets: %w", err)
	}
	writeln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d tabs to Google Sheets", len(sheets.Tabs))))
	return nil
}
