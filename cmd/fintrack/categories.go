package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/validate"
	"github.com/spf13/cobra"
)

func categoriesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
	}

	cmd.AddCommand(listCategoriesCmd(opts))
	cmd.AddCommand(getCategoryCmd(opts))
	cmd.AddCommand(addCategoryCmd(opts))
	cmd.AddCommand(updateCategoryCmd(opts))
	cmd.AddCommand(deleteCategoryCmd(opts))

	return cmd
}

func listCategoriesCmd(opts *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			t, err := parseType(kind)
			if err != nil {
				return err
			}

			categories, err := a.client.ListCategories(ctx, t)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				writeln(out, cli.InfoStyle.Render("No categories found. Use 'fintrack categories add' to create one."))
				return nil
			}
			renderCategories(out, categories)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "income or expense")

	return cmd
}

func renderCategories(out io.Writer, categories []model.Category) {
	w := newTable(out)
	printf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Name"),
		cli.TableHeaderStyle.Render("Type"),
		cli.TableHeaderStyle.Render("Color"))
	for _, c := range categories {
		name := c.Name
		if c.Icon != "" {
			name = c.Icon + " " + name
		}
		color := c.Color
		if color == "" {
			color = cli.SubtleStyle.Render("(none)")
		}
		printf(w, "%d\t%s\t%s\t%s\n", c.ID, name, c.Type, color)
	}
	if err := w.Flush(); err != nil {
		slog.Warn("Failed to write table", "error", err)
	}
}

func getCategoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client.GetCategory(ctx, id)
			if err != nil {
				return err
			}
			content := fmt.Sprintf("Name:  %s\nType:  %s\nColor: %s\nIcon:  %s", c.Name, c.Type, c.Color, c.Icon)
			writeln(cmd.OutOrStdout(), cli.RenderBox(fmt.Sprintf("Category #%d", c.ID), content))
			return nil
		}),
	}
}

type categoryFlags struct {
	name  string
	kind  string
	color string
	icon  string
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVar(&f.color, "color", "", "hex color, e.g. #FF5722")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon shown next to the name")
	cmd.Flags().StringVar(&f.name, "name", "", "new name")
}

func (f *categoryFlags) apply(cmd *cobra.Command, req *model.CategoryRequest) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		req.Name = f.name
	}
	if changed("type") || req.Type == "" {
		kind, err := parseType(f.kind)
		if err != nil {
			return err
		}
		req.Type = kind
	}
	if changed("color") {
		req.Color = f.color
	}
	if changed("icon") {
		req.Icon = f.icon
	}
	return nil
}

func addCategoryCmd(opts *rootOptions) *cobra.Command {
	var flags categoryFlags

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			req := model.CategoryRequest{Name: args[0]}
			if err := flags.apply(cmd, &req); err != nil {
				return err
			}
			if err := validate.Struct(req); err != nil {
				return err
			}

			c, err := a.client.CreateCategory(ctx, req)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %d)", c.Name, c.ID)))
			return nil
		}),
	}

	flags.register(cmd)
	_ = cmd.Flags().MarkHidden("name")

	return cmd
}

func updateCategoryCmd(opts *rootOptions) *cobra.Command {
	var flags categoryFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a category",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := a.client.GetCategory(ctx, id)
			if err != nil {
				return err
			}

			req := model.CategoryRequest{Name: current.Name, Type: current.Type, Color: current.Color, Icon: current.Icon}
			if err := flags.apply(cmd, &req); err != nil {
				return err
			}
			if err := validate.Struct(req); err != nil {
				return err
			}

			c, err := a.client.UpdateCategory(ctx, id, req)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated category %q", c.Name)))
			return nil
		}),
	}

	flags.register(cmd)

	return cmd
}

func deleteCategoryCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				ok, err := a.prompter(cmd).Confirm(ctx, fmt.Sprintf("Delete category #%d?", id), false)
				if err != nil {
					return err
				}
				if !ok {
					writeln(cmd.OutOrStdout(), cli.FormatInfo("Kept category."))
					return nil
				}
			}

			if err := a.client.DeleteCategory(ctx, id); err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted category #%d", id)))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
