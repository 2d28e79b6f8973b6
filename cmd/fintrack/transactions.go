package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/ledger"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/validate"
	"github.com/spf13/cobra"
)

func transactionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and manage transactions",
	}

	cmd.AddCommand(listTransactionsCmd(opts))
	cmd.AddCommand(getTransactionCmd(opts))
	cmd.AddCommand(addTransactionCmd(opts))
	cmd.AddCommand(updateTransactionCmd(opts))
	cmd.AddCommand(deleteTransactionCmd(opts))
	cmd.AddCommand(summaryCmd(opts))
	cmd.AddCommand(importCmd(opts))
	cmd.AddCommand(exportCmd(opts))

	return cmd
}

// filterFlags are the transaction filter flags shared by list and export.
type filterFlags struct {
	search   string
	kind     string
	category string
	from     string
	to       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "match description or category name")
	cmd.Flags().StringVarP(&f.kind, "type", "t", "", "income or expense")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVar(&f.from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last date, YYYY-MM-DD")
}

func (f *filterFlags) build(ctx context.Context, a *app) (model.TransactionFilter, error) {
	var (
		filter model.TransactionFilter
		err    error
	)
	filter.Search = f.search
	if filter.Type, err = parseType(f.kind); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = resolveCategory(ctx, a.client, f.category, filter.Type); err != nil {
		return filter, err
	}
	if filter.StartDate, err = parseOptionalDate(f.from); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseOptionalDate(f.to); err != nil {
		return filter, err
	}
	return filter, nil
}

func listTransactionsCmd(opts *rootOptions) *cobra.Command {
	var (
		filters  filterFlags
		page     int
		pageSize int
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			out := cmd.OutOrStdout()

			filter, err := filters.build(ctx, a)
			if err != nil {
				return err
			}

			if all {
				txns, err := a.client.ListAllTransactions(ctx, filter)
				if err != nil {
					return err
				}
				renderTransactions(out, txns)
				if len(txns) > 0 {
					renderTotals(out, ledger.Totals(txns))
				}
				return nil
			}

			if page < 1 {
				return common.NewUserError("page must be at least 1", common.ErrInvalidInput)
			}
			if pageSize < 1 {
				pageSize = opts.cfg.Pagination.PageSize
			}

			resp, err := a.client.ListTransactions(ctx, filter, page-1, pageSize)
			if err != nil {
				return err
			}
			renderTransactions(out, resp.Content)
			if resp.TotalElements > 0 {
				writeln(out, cli.SubtleStyle.Render(fmt.Sprintf("Page %d of %d (%d transactions)",
					page, max(resp.TotalPages, 1), resp.TotalElements)))
			}
			return nil
		}),
	}

	filters.register(cmd)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "size", 0, "transactions per page (default from config)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every page")

	return cmd
}

func renderTransactions(out io.Writer, txns []model.Transaction) {
	if len(txns) == 0 {
		writeln(out, cli.InfoStyle.Render("No transactions found."))
		return
	}

	w := newTable(out)
	printf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Date"),
		cli.TableHeaderStyle.Render("Description"),
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Amount"))
	for _, t := range txns {
		printf(w, "%d\t%s\t%s\t%s\t%s\n",
			t.ID,
			cli.FormatDate(t.Date),
			cli.Truncate(t.Description, 40),
			t.Category.Name,
			cli.StyleAmount(cli.FormatSignedCurrency(t.Amount, t.Type), t.IsExpense()))
	}
	if err := w.Flush(); err != nil {
		slog.Warn("Failed to write table", "error", err)
	}
}

func renderTotals(out io.Writer, s ledger.Summary) {
	printf(out, "\n%d transactions  income %s  expense %s  balance %s\n",
		s.Count,
		cli.SuccessStyle.Render(cli.FormatCurrency(s.Income)),
		cli.ErrorStyle.Render(cli.FormatCurrency(s.Expense)),
		cli.BoldStyle.Render(cli.FormatCurrency(s.Balance)))
}

func getTransactionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.client.GetTransaction(ctx, id)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.RenderBox(fmt.Sprintf("Transaction #%d", t.ID), describeTransaction(*t)))
			return nil
		}),
	}
}

func describeTransaction(t model.Transaction) string {
	s := fmt.Sprintf("Description: %s\nAmount:      %s\nType:        %s\nCategory:    %s\nDate:        %s",
		t.Description,
		cli.StyleAmount(cli.FormatSignedCurrency(t.Amount, t.Type), t.IsExpense()),
		t.Type,
		t.Category.Name,
		cli.FormatDate(t.Date))
	if t.Notes != "" {
		s += "\nNotes:       " + t.Notes
	}
	if t.Recurring {
		s += "\nRecurring:   yes"
	}
	return s
}

// transactionFlags are the editable fields of a transaction.
type transactionFlags struct {
	description string
	amount      string
	kind        string
	category    string
	date        string
	notes       string
	recurring   bool
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "what the money was for")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "positive amount, e.g. 42.50")
	cmd.Flags().StringVarP(&f.kind, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category id or name")
	cmd.Flags().StringVar(&f.date, "date", "", "date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "free-form notes")
	cmd.Flags().BoolVar(&f.recurring, "recurring", false, "mark as recurring")
}

// apply copies the flags that were set on cmd onto req.
func (f *transactionFlags) apply(ctx context.Context, cmd *cobra.Command, a *app, req *model.TransactionRequest) error {
	changed := cmd.Flags().Changed

	if changed("description") {
		req.Description = f.description
	}
	if changed("amount") {
		amount, err := cli.ParseAmount(f.amount)
		if err != nil {
			return err
		}
		req.Amount = amount
	}
	if changed("type") || req.Type == "" {
		kind, err := parseType(f.kind)
		if err != nil {
			return err
		}
		req.Type = kind
	}
	if changed("category") {
		id, err := resolveCategory(ctx, a.client, f.category, req.Type)
		if err != nil {
			return err
		}
		req.CategoryID = id
	}
	if changed("date") {
		d, err := parseOptionalDate(f.date)
		if err != nil {
			return err
		}
		if d != nil {
			req.Date = *d
		}
	}
	if changed("notes") {
		req.Notes = f.notes
	}
	if changed("recurring") {
		req.Recurring = f.recurring
	}
	return nil
}

func addTransactionCmd(opts *rootOptions) *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  fintrack transactions add -d "Groceries" -a 82.40 -c Food
  fintrack transactions add -d "Salary" -a 5000 -t income -c Salary --date 2024-01-05`,
		Args: cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			req := model.TransactionRequest{Date: model.NewDate(time.Now())}
			if err := flags.apply(ctx, cmd, a, &req); err != nil {
				return err
			}
			if err := validate.Struct(req); err != nil {
				return err
			}

			t, err := a.client.CreateTransaction(ctx, req)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added transaction #%d: %s %s",
				t.ID, t.Description, cli.FormatSignedCurrency(t.Amount, t.Type))))
			return nil
		}),
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func requestFromTransaction(t model.Transaction) model.TransactionRequest {
	return model.TransactionRequest{
		Date:        t.Date,
		Amount:      t.Amount,
		Description: t.Description,
		Type:        t.Type,
		Notes:       t.Notes,
		CategoryID:  t.CategoryID(),
		Recurring:   t.Recurring,
	}
}

func updateTransactionCmd(opts *rootOptions) *cobra.Command {
	var flags transactionFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Long:  `Only the flags you pass are changed; everything else is kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := a.client.GetTransaction(ctx, id)
			if err != nil {
				return err
			}

			req := requestFromTransaction(*current)
			if err := flags.apply(ctx, cmd, a, &req); err != nil {
				return err
			}
			if err := validate.Struct(req); err != nil {
				return err
			}

			t, err := a.client.UpdateTransaction(ctx, id, req)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated transaction #%d", t.ID)))
			return nil
		}),
	}

	flags.register(cmd)

	return cmd
}

func deleteTransactionCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				ok, err := a.prompter(cmd).Confirm(ctx, fmt.Sprintf("Delete transaction #%d?", id), false)
				if err != nil {
					return err
				}
				if !ok {
					writeln(cmd.OutOrStdout(), cli.FormatInfo("Kept transaction."))
					return nil
				}
			}

			if err := a.client.DeleteTransaction(ctx, id); err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted transaction #%d", id)))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func summaryCmd(opts *rootOptions) *cobra.Command {
	var (
		from, to   string
		byCategory bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total income and expenses over a date range",
		Args:  cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			start, err := parseOptionalDate(from)
			if err != nil {
				return err
			}
			end, err := parseOptionalDate(to)
			if err != nil {
				return err
			}

			s, err := a.client.TransactionSummary(ctx, start, end)
			if err != nil {
				return err
			}

			content := fmt.Sprintf("Income:       %s\nExpenses:     %s\nBalance:      %s\nTransactions: %d",
				cli.SuccessStyle.Render(cli.FormatCurrency(s.TotalIncome)),
				cli.ErrorStyle.Render(cli.FormatCurrency(s.TotalExpense)),
				cli.BoldStyle.Render(cli.FormatCurrency(s.Balance)),
				s.TransactionCount)
			title := "Summary"
			if !s.Period.StartDate.IsZero() {
				title = fmt.Sprintf("Summary %s to %s", cli.FormatDate(s.Period.StartDate), cli.FormatDate(s.Period.EndDate))
			}
			out := cmd.OutOrStdout()
			writeln(out, cli.RenderBox(title, content))

			if !byCategory {
				return nil
			}
			txns, err := a.client.ListAllTransactions(ctx, model.TransactionFilter{
				Type:      model.TransactionTypeExpense,
				StartDate: start,
				EndDate:   end,
			})
			if err != nil {
				return err
			}
			renderBreakdown(out, ledger.CategoryBreakdown(txns, model.TransactionTypeExpense))
			return nil
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&byCategory, "by-category", false, "also break expenses down by category")

	return cmd
}

func renderBreakdown(out io.Writer, totals []ledger.CategoryTotal) {
	if len(totals) == 0 {
		writeln(out, cli.InfoStyle.Render("No expenses in this range."))
		return
	}

	writeln(out, cli.FormatTitle("Expenses by category"))
	w := newTable(out)
	for _, ct := range totals {
		printf(w, "%s\t%s\t%s\t%d\n",
			ct.Category.Name, cli.FormatCurrency(ct.Amount), cli.FormatPercent(ct.Percentage), ct.Count)
	}
	if err := w.Flush(); err != nil {
		slog.Warn("Failed to write table", "error", err)
	}
}
