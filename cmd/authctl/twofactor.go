package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) twoFactorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "2fa",
		Short:   "Manage two-factor authentication",
		Aliases: []string{"two-factor"},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether two-factor authentication is enabled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			resp := c.app.orch.Get2FAStatus(cmd.Context())
			if !resp.Success {
				return failure(resp)
			}
			printField("Enabled", yesNo(resp.Data.Enabled))
			if resp.Data.ActivatedAt != nil {
				printField("Activated", resp.Data.ActivatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Enrol an authenticator app",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			o := c.app.orch
			setup := o.StartTwoFactorSetup(cmd.Context())
			if !setup.Success {
				return failure(setup)
			}
			defer o.CancelTwoFactor()

			fmt.Println(titleStyle.Render("Add this account to your authenticator app"))
			printField("Secret", setup.Data.Secret)
			printField("URL", setup.Data.OTPAuthURL)

			for {
				var code string
				if err := promptString("Code from the app", "123456", &code); err != nil {
					return err
				}
				resp := o.ConfirmTwoFactorSetup(cmd.Context(), code)
				if resp.Success {
					fmt.Println(successStyle.Render(resp.MessageOr("Two-factor authentication enabled")))
					return nil
				}
				fmt.Println(errorStyle.Render(failure(resp).Error()))
				again, err := promptConfirm("Try another code?")
				if err != nil {
					return err
				}
				if !again {
					return nil
				}
			}
		},
	}

	var password string
	disableCmd := &cobra.Command{
		Use:   "disable",
		Short: "Turn two-factor authentication off",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			o := c.app.orch
			state, err := o.StartTwoFactorDisable()
			if err != nil {
				return err
			}
			defer o.CancelTwoFactor()

			if state.NeedsPassword {
				if err := promptSecret("Password", &password); err != nil {
					return err
				}
			} else {
				ok, err := promptConfirm("Disable two-factor authentication?")
				if err != nil || !ok {
					return err
				}
			}
			return outcome(o.ConfirmTwoFactorDisable(cmd.Context(), password), "Two-factor authentication disabled")
		},
	}
	disableCmd.Flags().StringVar(&password, "password", "", "account password (prompted when needed)")

	cmd.AddCommand(statusCmd, setupCmd, disableCmd)
	return cmd
}
