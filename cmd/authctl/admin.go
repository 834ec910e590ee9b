package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"authsession/internal/auth/models"
)

var inviteUserTypes = map[models.Role]models.UserType{
	models.RoleUser:     models.UserTypeIndividual,
	models.RoleBusiness: models.UserTypeBusiness,
	models.RoleDelivery: models.UserTypeDelivery,
	models.RoleAdmin:    models.UserTypeStaff,
}

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer users and invitations",
	}

	overviewCmd := &cobra.Command{
		Use:   "overview",
		Short: "Show the dashboard: counts, first page of users and pending invitations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			resp := c.app.orch.LoadAdminOverview(cmd.Context())
			if !resp.Success {
				return failure(resp)
			}
			printStats(resp.Data.Stats)
			fmt.Println()
			fmt.Println(usersTable(resp.Data.Users.Users))
			fmt.Println(invitationsTable(resp.Data.Invitations.Invitations))
			return nil
		},
	}

	var filter models.ListUsersFilter
	var role string
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			filter.Role = models.Role(role)
			resp := c.app.orch.GetAllUsers(cmd.Context(), filter)
			if !resp.Success {
				return failure(resp)
			}
			fmt.Println(usersTable(resp.Data.Users))
			fmt.Println(hintStyle.Render(fmt.Sprintf("page %d, %d users in total", resp.Data.Page, resp.Data.Total)))
			return nil
		},
	}
	usersCmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	usersCmd.Flags().IntVar(&filter.PageSize, "page-size", 20, "users per page")
	usersCmd.Flags().StringVar(&role, "role", "", "only users with this role")
	usersCmd.Flags().StringVar(&filter.Search, "search", "", "match name or email")

	userCmd := &cobra.Command{
		Use:   "user <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			resp := c.app.orch.GetUserByID(cmd.Context(), args[0])
			if !resp.Success {
				return failure(resp)
			}
			printUser(resp.Data)
			return nil
		},
	}

	var newName, newRole, active string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's name, role or active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			req := models.UpdateUserByAdminRequest{UserID: args[0]}
			if newName != "" {
				req.Name = &newName
			}
			if newRole != "" {
				r := models.Role(newRole)
				req.Role = &r
			}
			if active != "" {
				b, err := strconv.ParseBool(active)
				if err != nil {
					return fmt.Errorf("--active must be true or false: %w", err)
				}
				req.IsActive = &b
			}
			resp := c.app.orch.UpdateUserByAdmin(cmd.Context(), req)
			if !resp.Success {
				return failure(resp)
			}
			fmt.Println(successStyle.Render(resp.MessageOr("User updated")))
			printUser(&resp.Data)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&newName, "name", "", "new display name")
	updateCmd.Flags().StringVar(&newRole, "role", "", "new role")
	updateCmd.Flags().StringVar(&active, "active", "", "activate (true) or deactivate (false)")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			ok, err := promptConfirm(fmt.Sprintf("Delete user %s?", args[0]))
			if err != nil || !ok {
				return err
			}
			return outcome(c.app.orch.DeleteUserByAdmin(cmd.Context(), args[0]), "User deleted")
		},
	}

	var invite models.InviteUserRequest
	var inviteRole string
	inviteCmd := &cobra.Command{
		Use:   "invite <email>",
		Short: "Invite someone to create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			invite.Email = args[0]
			invite.Role = models.Role(inviteRole)
			if err := promptRole(&invite.Role); err != nil {
				return err
			}
			invite.UserType = inviteUserTypes[invite.Role]
			resp := c.app.orch.InviteUser(cmd.Context(), invite)
			if !resp.Success {
				return failure(resp)
			}
			fmt.Println(successStyle.Render(resp.MessageOr("Invitation sent")))
			fmt.Println(invitationsTable([]models.Invitation{resp.Data}))
			return nil
		},
	}
	inviteCmd.Flags().StringVar(&inviteRole, "role", "", "user, business, delivery or admin")

	var status string
	invitationsCmd := &cobra.Command{
		Use:   "invitations",
		Short: "List invitations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			resp := c.app.orch.GetInvitations(cmd.Context(), models.InvitationFilter{Status: models.InvitationStatus(status)})
			if !resp.Success {
				return failure(resp)
			}
			fmt.Println(invitationsTable(resp.Data.Invitations))
			return nil
		},
	}
	invitationsCmd.Flags().StringVar(&status, "status", "", "pending, accepted, cancelled or expired")

	cancelCmd := &cobra.Command{
		Use:   "cancel-invitation <id>",
		Short: "Cancel a pending invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			return outcome(c.app.orch.CancelInvitation(cmd.Context(), args[0]), "Invitation cancelled")
		},
	}

	resendCmd := &cobra.Command{
		Use:   "resend-invitation <id>",
		Short: "Send a pending invitation again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireAdmin(); err != nil {
				return err
			}
			resp := c.app.orch.ResendInvitation(cmd.Context(), args[0])
			if !resp.Success {
				return failure(resp)
			}
			fmt.Println(successStyle.Render(resp.MessageOr("Invitation resent")))
			fmt.Println(invitationsTable([]models.Invitation{resp.Data}))
			return nil
		},
	}

	cmd.AddCommand(overviewCmd, usersCmd, userCmd, updateCmd, deleteCmd, inviteCmd, invitationsCmd, cancelCmd, resendCmd)
	return cmd
}

func (c *cli) invitationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invitation",
		Short: "Inspect or accept an invitation you received",
	}

	checkCmd := &cobra.Command{
		Use:   "check <token>",
		Short: "Show what an invitation token grants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := c.app.orch.VerifyInvitationToken(cmd.Context(), args[0])
			if !resp.Success {
				return failure(resp)
			}
			if !resp.Data.Valid || resp.Data.Invitation == nil {
				fmt.Println(errorStyle.Render("This invitation is no longer valid"))
				return nil
			}
			fmt.Println(invitationsTable([]models.Invitation{*resp.Data.Invitation}))
			return nil
		},
	}

	var accept models.AcceptInvitationRequest
	acceptCmd := &cobra.Command{
		Use:   "accept <token>",
		Short: "Create the invited account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accept.Token = args[0]
			if err := promptString("Name", "Ada Lovelace", &accept.Name); err != nil {
				return err
			}
			if err := promptSecret("Password", &accept.Password); err != nil {
				return err
			}
			if err := outcome(c.app.orch.AcceptInvitation(cmd.Context(), accept), "Invitation accepted"); err != nil {
				return err
			}
			printUser(c.app.orch.Session().User)
			return nil
		},
	}
	acceptCmd.Flags().StringVar(&accept.Name, "name", "", "display name")

	cmd.AddCommand(checkCmd, acceptCmd)
	return cmd
}

func printStats(s models.UsersStats) {
	fmt.Println(titleStyle.Render("Users"))
	printField("Total", strconv.Itoa(s.Total))
	printField("Active", strconv.Itoa(s.Active))
	printField("Admins", strconv.Itoa(s.Admins))
	printField("Business", strconv.Itoa(s.Business))
	printField("Delivery", strconv.Itoa(s.Delivery))
	printField("Email verified", strconv.Itoa(s.EmailVerified))
	printField("2FA enabled", strconv.Itoa(s.TwoFactorEnabled))
	printField("Pending invites", strconv.Itoa(s.PendingInvites))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...)
}

func usersTable(users []models.User) string {
	t := newTable("ID", "NAME", "EMAIL", "ROLE", "VERIFIED")
	for _, u := range users {
		t.Row(u.ID, u.Name, u.Email, string(u.Role), yesNo(u.IsEmailVerified))
	}
	return t.Render()
}

func invitationsTable(invitations []models.Invitation) string {
	t := newTable("ID", "EMAIL", "ROLE", "STATUS", "EXPIRES", "RESENT")
	for _, inv := range invitations {
		t.Row(inv.ID, inv.Email, string(inv.Role), string(inv.Status),
			inv.ExpiresAt.Local().Format("2006-01-02"), strconv.Itoa(inv.ResentCount))
	}
	return t.Render()
}
