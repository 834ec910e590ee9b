package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"authsession/internal/auth/permission"
)

// cli holds the session core shared by every subcommand of one invocation.
type cli struct {
	app *app
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "authctl",
		Short: "Command-line client for the account service",
		Long: `authctl signs in to the account service and manages the signed-in
account: two-factor authentication, profile, identity verification and
administration. Credentials are kept in a token file between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			c.app = a
			if resp := a.orch.Initialize(cmd.Context()); !resp.Success {
				a.logger.WarnContext(cmd.Context(), "initial session check failed",
					"code", resp.Code(), "error", resp.MessageOr(""))
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.refreshCmd(),
		c.registerCmd(),
		c.activateCmd(),
		c.passwordCmd(),
		c.twoFactorCmd(),
		c.profileCmd(),
		c.avatarCmd(),
		c.identityCmd(),
		c.adminCmd(),
		c.invitationCmd(),
	)
	return root
}

// requireSession fails fast when the initial check found no signed-in user.
func (c *cli) requireSession() error {
	if _, err := c.app.orch.CurrentUser(); err != nil {
		return fmt.Errorf("not signed in: run authctl login first")
	}
	return nil
}

// requireAdmin gates the admin commands on the cached session; the backend
// enforces the same rule.
func (c *cli) requireAdmin() error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if !permission.FromSession(c.app.orch.Session()).Admin {
		return fmt.Errorf("this command needs an administrator account")
	}
	return nil
}
