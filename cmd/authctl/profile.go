package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"authsession/internal/auth/models"
	"authsession/internal/auth/transport"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the signed-in account",
	}

	nameCmd := &cobra.Command{
		Use:   "name <name>",
		Short: "Change the display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			return outcome(c.app.orch.UpdateUserName(cmd.Context(), models.UpdateNameRequest{Name: args[0]}), "Name updated")
		},
	}

	phoneCmd := &cobra.Command{
		Use:   "phone <number>",
		Short: "Change the phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			return outcome(c.app.orch.UpdatePhoneNumber(cmd.Context(), models.UpdatePhoneRequest{PhoneNumber: args[0]}), "Phone number updated")
		},
	}

	emailCmd := &cobra.Command{
		Use:   "email <new-email>",
		Short: "Change the account email; the new address must be confirmed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			o := c.app.orch
			resp := o.RequestEmailChange(cmd.Context(), models.EmailChangeRequestInput{NewEmail: args[0]})
			if !resp.Success {
				return failure(resp)
			}
			printField("Pending email", resp.Data.PendingEmail)
			printField("Expires", resp.Data.ExpiresAt.Local().Format("2006-01-02 15:04"))

			var verify models.VerifyEmailChangeRequest
			if err := promptString("Token from the email", "", &verify.Token); err != nil {
				return err
			}
			if err := promptString("Code from the email", "123456", &verify.Code); err != nil {
				return err
			}
			return outcome(o.VerifyEmailChange(cmd.Context(), verify), "Email changed")
		},
	}

	var business models.UpdateBusinessRequest
	businessCmd := &cobra.Command{
		Use:   "business",
		Short: "Register the business attached to the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			if err := promptString("Business name", "", &business.Name); err != nil {
				return err
			}
			if err := promptString("Business number", "1234567891", &business.Number); err != nil {
				return err
			}
			check := c.app.orch.ValidateBusinessNumber(cmd.Context(), models.BusinessNumberRequest{Number: business.Number})
			if !check.Success {
				return failure(check)
			}
			if !check.Data.Valid {
				return fmt.Errorf("business number %s is not registered (%s)", business.Number, check.Data.Status)
			}
			return outcome(c.app.orch.UpdateBusiness(cmd.Context(), business), "Business updated")
		},
	}
	businessCmd.Flags().StringVar(&business.Name, "name", "", "business name")
	businessCmd.Flags().StringVar(&business.Number, "number", "", "ten digit business number")
	businessCmd.Flags().StringVar(&business.RepresentativeName, "representative", "", "representative name")
	businessCmd.Flags().StringVar(&business.Address, "address", "", "business address")

	var deletion models.DeleteAccountRequest
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the account permanently",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.app.orch.CurrentUser()
			if err != nil {
				return c.requireSession()
			}
			ok, err := promptConfirm(fmt.Sprintf("Delete %s permanently?", user.Email))
			if err != nil || !ok {
				return err
			}
			if !user.IsSocialUser {
				if err := promptSecret("Password", &deletion.Password); err != nil {
					return err
				}
			}
			return outcome(c.app.orch.DeleteAccount(cmd.Context(), deletion), "Account deleted")
		},
	}
	deleteCmd.Flags().StringVar(&deletion.Reason, "reason", "", "why the account is being deleted")

	cmd.AddCommand(nameCmd, phoneCmd, emailCmd, businessCmd, deleteCmd)
	return cmd
}

func (c *cli) avatarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Upload or remove the profile picture",
	}

	var replace bool
	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a JPEG, PNG, GIF or WebP image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read avatar: %w", err)
			}
			file := transport.AvatarFile{Name: filepath.Base(args[0]), Content: content, ReplaceExisting: replace}
			resp := c.app.orch.UploadAvatar(cmd.Context(), file, func(percent int) {
				fmt.Printf("\r%s", hintStyle.Render(fmt.Sprintf("uploading %3d%%", percent)))
			})
			fmt.Println()
			if !resp.Success {
				return failure(resp)
			}
			fmt.Println(successStyle.Render(resp.MessageOr("Avatar uploaded")))
			printField("URL", resp.Data.AvatarURL)
			return nil
		},
	}
	uploadCmd.Flags().BoolVar(&replace, "replace", false, "replace an existing avatar")

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the profile picture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			return outcome(c.app.orch.DeleteAvatar(cmd.Context()), "Avatar removed")
		},
	}

	cmd.AddCommand(uploadCmd, deleteCmd)
	return cmd
}
