package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"authsession/internal/auth/models"
	"authsession/internal/auth/permission"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(18)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

func printField(label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Println(labelStyle.Render(label) + value)
}

// outcome prints a response's success message or turns its failure into an
// error carrying the code.
func outcome[T any](resp models.Response[T], fallback string) error {
	if resp.Success {
		fmt.Println(successStyle.Render(resp.MessageOr(fallback)))
		return nil
	}
	return failure(resp)
}

func failure[T any](resp models.Response[T]) error {
	return fmt.Errorf("%s (%s)", resp.MessageOr("operation failed"), resp.Code())
}

func promptString(title, placeholder string, value *string) error {
	if *value != "" {
		return nil
	}
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	if *value == "" {
		return errors.New(title + " is required")
	}
	return nil
}

func promptSecret(title string, value *string) error {
	if *value != "" {
		return nil
	}
	input := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(value)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	if *value == "" {
		return errors.New(title + " is required")
	}
	return nil
}

func promptConfirm(title string) (bool, error) {
	var ok bool
	confirm := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}

func promptRole(value *models.Role) error {
	if *value != "" {
		return nil
	}
	sel := huh.NewSelect[models.Role]().
		Title("Role").
		Options(
			huh.NewOption("User", models.RoleUser),
			huh.NewOption("Business", models.RoleBusiness),
			huh.NewOption("Delivery", models.RoleDelivery),
			huh.NewOption("Admin", models.RoleAdmin),
		).
		Value(value)
	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

func printUser(u *models.User) {
	if u == nil {
		fmt.Println(hintStyle.Render("Not signed in"))
		return
	}
	fmt.Println(titleStyle.Render(u.Name))
	printField("Id", u.ID)
	printField("Email", u.Email)
	printField("Phone", u.PhoneNumber)
	perms := permission.Evaluate(u)
	printField("Role", string(u.Role))
	printField("Administrator", yesNo(perms.Admin))
	printField("Email verified", yesNo(perms.EmailVerified))
	printField("Phone verified", yesNo(perms.PhoneVerified))
	printField("2FA enabled", yesNo(perms.TwoFactorEnabled))
	printField("Identity verified", yesNo(u.IsIdentityVerified))
	printField("Social account", yesNo(u.IsSocialUser))
	if u.Avatar != nil {
		printField("Avatar", u.Avatar.URL)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
