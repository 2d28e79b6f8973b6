package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/session"
	"github.com/spf13/cobra"
)

func authCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and manage your account",
	}

	cmd.AddCommand(loginCmd(opts))
	cmd.AddCommand(registerCmd(opts))
	cmd.AddCommand(logoutCmd(opts))
	cmd.AddCommand(statusCmd(opts))
	cmd.AddCommand(profileCmd(opts))

	return cmd
}

// authFailure keeps the server's explanation for rejected credentials
// instead of the generic expired-session message.
func authFailure(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return common.NewUserError(apiErr.Message, err)
	}
	return err
}

func loginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the fintrack API",
		Long: `Sign in with your email and password. Missing values are prompted for.

The session token is stored locally and reused by every other command.`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			p := a.prompter(cmd)

			var err error
			if email == "" {
				if email, err = p.Ask(ctx, "Email", ""); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = p.AskPassword(ctx, "Password"); err != nil {
					return err
				}
			}

			user, err := a.session.Login(ctx, model.LoginRequest{Email: email, Password: password})
			if err != nil {
				return authFailure(err)
			}

			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Signed in as %s (%s)", user.Name, user.Email)))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")

	return cmd
}

func registerCmd(opts *rootOptions) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			p := a.prompter(cmd)

			var err error
			if name == "" {
				if name, err = p.Ask(ctx, "Name", ""); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = p.Ask(ctx, "Email", ""); err != nil {
					return err
				}
			}

			confirm := password
			if password == "" {
				if password, err = p.AskPassword(ctx, "Password"); err != nil {
					return err
				}
				if confirm, err = p.AskPassword(ctx, "Confirm password"); err != nil {
					return err
				}
			}

			user, err := a.session.Register(ctx, model.RegisterRequest{
				Name:            name,
				Email:           email,
				Password:        password,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return authFailure(err)
			}

			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Welcome, %s! Your account is ready.", user.Name)))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "your name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted twice when omitted)")

	return cmd
}

func logoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			if err := a.session.Logout(ctx); err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess("Signed out."))
			return nil
		}),
	}
}

func statusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is signed in",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			out := cmd.OutOrStdout()

			if err := a.session.Restore(ctx); err != nil {
				return err
			}
			if !a.session.IsAuthenticated() {
				writeln(out, cli.FormatInfo("Not signed in. Run 'fintrack auth login'."))
				return nil
			}

			user := a.session.User()
			writeln(out, cli.FormatSuccess(fmt.Sprintf("Signed in as %s (%s)", user.Name, user.Email)))
			printf(out, "  Server: %s\n", opts.cfg.API.URL)

			expiry, err := a.session.TokenExpiry()
			switch {
			case errors.Is(err, session.ErrNoExpiry):
			case err != nil:
				return err
			default:
				printf(out, "  Session expires: %s\n", expiry.Local().Format(time.RFC1123))
			}
			return nil
		}),
	}
}

func profileCmd(opts *rootOptions) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		Long: `Without flags, show your profile. With --name or --email, update it.`,
		Args: cobra.NoArgs,
		RunE: opts.authed(func(ctx context.Context, cmd *cobra.Command, _ []string, a *app) error {
			user := a.session.User()

			var update model.ProfileUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}

			if update.Name != nil || update.Email != nil {
				updated, err := a.session.UpdateProfile(ctx, update)
				if err != nil {
					return err
				}
				user = updated
				writeln(cmd.OutOrStdout(), cli.FormatSuccess("Profile updated."))
			}

			content := fmt.Sprintf("Name:    %s\nEmail:   %s\nRole:    %s\nMember since %s",
				user.Name, user.Email, user.Role, cli.FormatDate(model.NewDate(user.CreatedAt)))
			writeln(cmd.OutOrStdout(), cli.RenderBox("Profile", content))
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")

	return cmd
}
