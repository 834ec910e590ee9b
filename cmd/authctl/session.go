package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"authsession/internal/auth/models"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	var emergency bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in with email and password. Accounts with two-factor
authentication are asked for an authenticator code; --emergency instead mails
a one-time code that turns two-factor authentication off and signs in.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := promptString("Email", "you@example.com", &email); err != nil {
				return err
			}
			if err := promptSecret("Password", &password); err != nil {
				return err
			}

			o := c.app.orch
			start := o.LoginStep1(ctx, models.LoginRequest{Email: email, Password: password})
			if !start.Success {
				return failure(start)
			}
			if start.Data.Requires2FA {
				pending := start.Data.Pending
				defer o.CancelLogin()

				var resp models.Response[models.Empty]
				if emergency {
					if sent := o.RequestEmergencyEmailCode(ctx, pending); !sent.Success {
						return failure(sent)
					}
					var code string
					if err := promptString("Emergency code from your email", "123456", &code); err != nil {
						return err
					}
					resp = o.DisableTwoFactorDuringLogin(ctx, pending, code)
				} else {
					var code string
					if err := promptString("Authenticator code", "123456", &code); err != nil {
						return err
					}
					resp = o.LoginStep2(ctx, pending, code)
				}
				if !resp.Success {
					return failure(resp)
				}
			}

			user, err := o.CurrentUser()
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render("Signed in"))
			printUser(user)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	cmd.Flags().BoolVar(&emergency, "emergency", false, "disable two-factor authentication with an emailed code")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all {
				return outcome(c.app.orch.LogoutAll(cmd.Context()), "Signed out everywhere")
			}
			return outcome(c.app.orch.Logout(cmd.Context()), "Signed out")
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "end every session of the account")
	return cmd
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"status"},
		Short:   "Show the signed-in account",
		RunE: func(*cobra.Command, []string) error {
			session := c.app.orch.Session()
			if session.Error != "" && !session.Authenticated() {
				fmt.Println(errorStyle.Render(session.Error))
			}
			printUser(session.User)
			return nil
		},
	}
}

func (c *cli) refreshCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token when it is about to expire",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			resp := c.app.orch.EnsureFreshToken(cmd.Context())
			if force {
				resp = c.app.orch.RefreshToken(cmd.Context())
			}
			if !resp.Success {
				return failure(resp)
			}
			fmt.Println(successStyle.Render("Access token is fresh"))
			if resp.Data.ExpiresIn > 0 {
				printField("Expires in", fmt.Sprintf("%ds", resp.Data.ExpiresIn))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "refresh even when the token is still fresh")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptString("Name", "Ada Lovelace", &req.Name); err != nil {
				return err
			}
			if err := promptString("Email", "you@example.com", &req.Email); err != nil {
				return err
			}
			if err := promptSecret("Password", &req.Password); err != nil {
				return err
			}
			return outcome(c.app.orch.RegisterUser(cmd.Context(), req), "Account created, check your email for the activation code")
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "phone number")
	return cmd
}

func (c *cli) activateCmd() *cobra.Command {
	var req models.ActivationCodeRequest
	var resend bool
	cmd := &cobra.Command{
		Use:   "activate",
		Short: "Activate a new account with the emailed code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptString("Email", "you@example.com", &req.Email); err != nil {
				return err
			}
			if resend {
				return outcome(c.app.orch.ResendActivationCode(cmd.Context(), models.EmailRequest{Email: req.Email}), "Activation code sent")
			}
			if err := promptString("Activation code", "123456", &req.Code); err != nil {
				return err
			}
			return outcome(c.app.orch.VerifyActivationCode(cmd.Context(), req), "Account activated")
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Code, "code", "", "activation code")
	cmd.Flags().BoolVar(&resend, "resend", false, "send a new activation code")
	return cmd
}

func (c *cli) passwordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change, forget or reset the account password",
	}

	var forgot models.EmailRequest
	forgotCmd := &cobra.Command{
		Use:   "forgot",
		Short: "Mail a password reset link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptString("Email", "you@example.com", &forgot.Email); err != nil {
				return err
			}
			return outcome(c.app.orch.ForgotPassword(cmd.Context(), forgot), "Reset instructions sent")
		},
	}
	forgotCmd.Flags().StringVar(&forgot.Email, "email", "", "account email")

	var reset models.ResetPasswordRequest
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptString("Reset token", "", &reset.Token); err != nil {
				return err
			}
			if err := promptSecret("New password", &reset.NewPassword); err != nil {
				return err
			}
			return outcome(c.app.orch.ResetPassword(cmd.Context(), reset), "Password reset, sign in again")
		},
	}
	resetCmd.Flags().StringVar(&reset.Token, "token", "", "reset token from the email")

	var change models.ChangePasswordRequest
	changeCmd := &cobra.Command{
		Use:   "change",
		Short: "Change the password of the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			if err := promptSecret("Current password", &change.CurrentPassword); err != nil {
				return err
			}
			if err := promptSecret("New password", &change.NewPassword); err != nil {
				return err
			}
			return outcome(c.app.orch.ChangePassword(cmd.Context(), change), "Password changed")
		},
	}

	cmd.AddCommand(forgotCmd, resetCmd, changeCmd)
	return cmd
}
