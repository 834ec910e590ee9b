package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"authsession/internal/auth/identity"
	"authsession/internal/auth/models"
	"authsession/internal/auth/orchestrator"
)

func (c *cli) identityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Verify the account holder's identity",
	}

	var customer models.Customer
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Request an identity verification from the provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.orch.CurrentUser()
			if err != nil {
				return c.requireSession()
			}
			if customer.FullName == "" {
				customer.FullName = user.Name
			}
			if customer.PhoneNumber == "" {
				customer.PhoneNumber = user.PhoneNumber
			}
			if err := promptString("Full name", "", &customer.FullName); err != nil {
				return err
			}
			if err := promptString("Phone number", "", &customer.PhoneNumber); err != nil {
				return err
			}
			return printIdentity(c.app.orch.StartIdentityVerification(cmd.Context(), customer))
		},
	}
	startCmd.Flags().StringVar(&customer.FullName, "name", "", "legal name (defaults to the account name)")
	startCmd.Flags().StringVar(&customer.PhoneNumber, "phone", "", "phone number (defaults to the account phone)")

	resumeCmd := &cobra.Command{
		Use:   "resume <callback-url>",
		Short: "Finish a verification from the provider's callback URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			loc, err := identity.NewMemoryLocation(args[0])
			if err != nil {
				return fmt.Errorf("parse callback url: %w", err)
			}
			return printIdentity(c.app.orch.ResumeIdentityVerification(cmd.Context(), loc))
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status <verification-id>",
		Short: "Show a verification's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			resp := c.app.orch.GetIdentityVerification(cmd.Context(), args[0])
			if !resp.Success {
				return failure(resp)
			}
			printVerification(resp.Data)
			return nil
		},
	}

	cmd.AddCommand(startCmd, resumeCmd, statusCmd)
	return cmd
}

func printIdentity(resp models.Response[orchestrator.IdentityOutcome]) error {
	if !resp.Success {
		return failure(resp)
	}
	out := resp.Data
	switch {
	case out.Verification != nil:
		fmt.Println(successStyle.Render("Identity verified"))
		printVerification(*out.Verification)
	case out.Redirected:
		printField("Verification id", out.IdentityVerificationID)
	default:
		fmt.Println(hintStyle.Render(resp.MessageOr("Nothing to verify")))
	}
	return nil
}

func printVerification(v models.IdentityVerification) {
	printField("Verification id", v.IdentityVerificationID)
	printField("Status", string(v.Status))
	printField("Verified name", v.VerifiedName)
	printField("Verified phone", v.VerifiedPhoneNumber)
	if v.VerifiedAt != nil {
		printField("Verified at", v.VerifiedAt.Local().Format("2006-01-02 15:04"))
	}
}
