package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/tui/themes"
	"github.com/Veraticus/fintrack/internal/validate"
	"github.com/spf13/cobra"
)

func budgetsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage category budgets and track spending against them",
	}

	cmd.AddCommand(listBudgetsCmd(opts))
	cmd.AddCommand(getBudgetCmd(opts))
	cmd.AddCommand(addBudgetCmd(opts))
	cmd.AddCommand(updateBudgetCmd(opts))
	cmd.AddCommand(deleteBudgetCmd(opts))
	cmd.AddCommand(budgetProgressCmd(opts))

	return cmd
}

func listBudgetsCmd(opts *rootOptions) *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		Args:  cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			p, err := parsePeriod(period)
			if err != nil {
				return err
			}

			budgets, err := a.client.ListBudgets(ctx, p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(budgets) == 0 {
				writeln(out, cli.InfoStyle.Render("No budgets found. Use 'fintrack budgets add' to create one."))
				return nil
			}
			renderBudgets(out, budgets)
			return nil
		}),
	}

	cmd.Flags().StringVar(&period, "period", "", "weekly, monthly or yearly")

	return cmd
}

func renderBudgets(out io.Writer, budgets []model.Budget) {
	w := newTable(out)
	printf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Amount"),
		cli.TableHeaderStyle.Render("Period"),
		cli.TableHeaderStyle.Render("Start"),
		cli.TableHeaderStyle.Render("End"))
	for _, b := range budgets {
		end := "-"
		if b.EndDate != nil {
			end = cli.FormatDate(*b.EndDate)
		}
		printf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.Category.Name, cli.FormatCurrency(b.Amount), b.Period, cli.FormatDate(b.StartDate), end)
	}
	if err := w.Flush(); err != nil {
		slog.Warn("Failed to write table", "error", err)
	}
}

func getBudgetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one budget",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := a.client.GetBudget(ctx, id)
			if err != nil {
				return err
			}

			end := "open-ended"
			if b.EndDate != nil {
				end = cli.FormatDate(*b.EndDate)
			}
			content := fmt.Sprintf("Category: %s\nAmount:   %s\nPeriod:   %s\nStart:    %s\nEnd:      %s",
				b.Category.Name, cli.FormatCurrency(b.Amount), b.Period, cli.FormatDate(b.StartDate), end)
			writeln(cmd.OutOrStdout(), cli.RenderBox(fmt.Sprintf("%s Budget #%d", cli.BudgetIcon, b.ID), content))
			return nil
		}),
	}
}

type budgetFlags struct {
	category string
	amount   string
	period   string
	start    string
	end      string
}

func (f *budgetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "expense category id or name")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "spending limit, e.g. 500")
	cmd.Flags().StringVarP(&f.period, "period", "p", "monthly", "weekly, monthly or yearly")
	cmd.Flags().StringVar(&f.start, "start", "", "first day, YYYY-MM-DD (default first of this month)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day, YYYY-MM-DD (default open-ended)")
}

func (f *budgetFlags) apply(ctx context.Context, cmd *cobra.Command, a *app, req *model.BudgetRequest) error {
	changed := cmd.Flags().Changed

	if changed("category") {
		id, err := resolveCategory(ctx, a.client, f.category, model.TransactionTypeExpense)
		if err != nil {
			return err
		}
		req.CategoryID = id
	}
	if changed("amount") {
		amount, err := cli.ParseAmount(f.amount)
		if err != nil {
			return err
		}
		req.Amount = amount
	}
	if changed("period") || req.Period == "" {
		p, err := parsePeriod(f.period)
		if err != nil {
			return err
		}
		req.Period = p
	}
	if changed("start") {
		d, err := parseOptionalDate(f.start)
		if err != nil {
			return err
		}
		if d != nil {
			req.StartDate = *d
		}
	}
	if changed("end") {
		d, err := parseOptionalDate(f.end)
		if err != nil {
			return err
		}
		req.EndDate = d
	}
	return nil
}

func firstOfMonth(t time.Time) model.Date {
	return model.NewDate(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))
}

func addBudgetCmd(opts *rootOptions) *cobra.Command {
	var flags budgetFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a budget",
		Example: `  fintrack budgets add -c Food -a 600 -p monthly`,
		Args:    cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			req := model.BudgetRequest{StartDate: firstOfMonth(time.Now())}
			if err := flags.apply(ctx, cmd, a, &req); err != nil {
				return err
			}
			if err := validate.Struct(req); err != nil {
				return err
			}

			b, err := a.client.CreateBudget(ctx, req)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created %s budget #%d for %s: %s",
				b.Period, b.ID, b.Category.Name, cli.FormatCurrency(b.Amount))))
			return nil
		}),
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func updateBudgetCmd(opts *rootOptions) *cobra.Command {
	var flags budgetFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a budget",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := a.client.GetBudget(ctx, id)
			if err != nil {
				return err
			}

			req := model.BudgetRequest{
				StartDate:  current.StartDate,
				EndDate:    current.EndDate,
				Amount:     current.Amount,
				Period:     current.Period,
				CategoryID: current.CategoryID(),
			}
			if err := flags.apply(ctx, cmd, a, &req); err != nil {
				return err
			}
			if err := validate.Struct(req); err != nil {
				return err
			}

			b, err := a.client.UpdateBudget(ctx, id, req)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated budget #%d", b.ID)))
			return nil
		}),
	}

	flags.register(cmd)

	return cmd
}

func deleteBudgetCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				ok, err := a.prompter(cmd).Confirm(ctx, fmt.Sprintf("Delete budget #%d?", id), false)
				if err != nil {
					return err
				}
				if !ok {
					writeln(cmd.OutOrStdout(), cli.FormatInfo("Kept budget."))
					return nil
				}
			}

			if err := a.client.DeleteBudget(ctx, id); err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted budget #%d", id)))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func budgetProgressCmd(opts *rootOptions) *cobra.Command {
	var (
		local bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show how much of each budget is spent",
		Long: `Show spending against every budget. By default the server computes progress;
--local computes it from your budgets and transactions instead, using the
rollover settings from the config file.`,
		Args: cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			var (
				progress []model.BudgetProgress
				err      error
			)
			if local {
				progress, err = localProgress(ctx, a)
			} else {
				progress, err = a.client.BudgetProgress(ctx)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(progress) == 0 {
				writeln(out, cli.InfoStyle.Render("No budgets to track. Use 'fintrack budgets add' to create one."))
				return nil
			}
			writeln(out, cli.FormatTitle("Budget progress"))
			renderProgress(out, a.theme(ctx), progress, width)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&local, "local", false, "compute progress locally")
	cmd.Flags().IntVarP(&width, "width", "w", 30, "progress bar width")

	return cmd
}

func localProgress(ctx context.Context, a *app) ([]model.BudgetProgress, error) {
	budgets, err := a.client.ListBudgets(ctx, "")
	if err != nil {
		return nil, err
	}
	txns, err := a.client.ListAllTransactions(ctx, model.TransactionFilter{Type: model.TransactionTypeExpense})
	if err != nil {
		return nil, err
	}
	return a.calculator().ProgressAll(budgets, txns)
}

func renderProgress(out io.Writer, theme themes.Theme, progress []model.BudgetProgress, width int) {
	for _, p := range progress {
		status := cli.SuccessStyle.Render(string(p.Status))
		switch p.Status {
		case model.StatusWarning:
			status = cli.WarningStyle.Render(string(p.Status))
		case model.StatusExceeded:
			status = cli.ErrorStyle.Render(string(p.Status))
		}

		remaining := fmt.Sprintf("%s left", cli.FormatCurrency(p.RemainingAmount))
		if p.RemainingAmount.IsNegative() {
			remaining = cli.ErrorStyle.Render(fmt.Sprintf("%s over", cli.FormatCurrency(p.RemainingAmount.Neg())))
		}

		printf(out, "%s  %s  %s\n", cli.BoldStyle.Render(p.CategoryName), cli.SubtleStyle.Render(string(p.Period)), status)
		printf(out, "  %s\n", cli.BudgetBar(theme, p, width))
		printf(out, "  %s of %s, %s\n\n", cli.FormatCurrency(p.SpentAmount), cli.FormatCurrency(p.BudgetAmount), remaining)
	}
}
