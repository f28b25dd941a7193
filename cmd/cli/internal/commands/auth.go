package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/surplus/internal/client"
	"github.com/wolfeidau/surplus/internal/models"
	"github.com/wolfeidau/surplus/internal/session"
)

// LoginCmd signs in with email and password.
type LoginCmd struct {
	Email    string `help:"Account email" required:"" validate:"required,email"`
	Password string `help:"Account password" required:"" env:"SURPLUS_PASSWORD" validate:"required"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.guard(session.Guest("")); err != nil {
		return err
	}
	if err := validateForm(c); err != nil {
		return err
	}

	resp, err := a.api.Login(ctx, client.Credentials{Email: c.Email, Password: c.Password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.session.Login(resp.Token, resp.User); err != nil {
		return err
	}

	a.printf("Signed in as %s (%s)\n", resp.User.Username, resp.User.Role)
	return nil
}

// RegisterCmd creates an account and signs in.
type RegisterCmd struct {
	Username string `help:"Display name (3 to 20 characters)" required:"" validate:"min=3,max=20"`
	Email    string `help:"Account email" required:"" validate:"required,email"`
	Password string `help:"Password (8+ characters with a letter and a number)" required:"" env:"SURPLUS_PASSWORD" validate:"min=8,containsany=0123456789,containsany=abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"`
	Seller   bool   `help:"Register as a seller"`
}

func (c *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.guard(session.Guest("")); err != nil {
		return err
	}

	if err := validateForm(c); err != nil {
		return err
	}

	role := models.RoleCustomer
	if c.Seller {
		role = models.RoleSeller
	}

	resp, err := a.api.Register(ctx, client.Registration{
		Username: c.Username,
		Email:    c.Email,
		Password: c.Password,
		Role:     role,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := a.session.Login(resp.Token, resp.User); err != nil {
		return err
	}

	a.printf("Welcome %s! Your %s account is ready.\n", resp.User.Username, resp.User.Role)
	return nil
}

// LogoutCmd ends the session.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	wasSignedIn := a.session.IsAuthenticated()
	if err := a.session.Logout(); err != nil {
		return err
	}

	if wasSignedIn {
		a.println("Signed out.")
	} else {
		a.println("Not signed in.")
	}
	return nil
}

// WhoamiCmd shows the signed in user.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	if !a.session.IsAuthenticated() {
		a.println("Not signed in.")
		return nil
	}

	u := a.session.User()
	a.printf("Username: %s\n", u.Username)
	a.printf("Email:    %s\n", u.Email)
	a.printf("Role:     %s\n", u.Role)
	if exp, ok := session.ExpiresAt(a.session.Token()); ok {
		a.printf("Expires:  %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// ProfileCmd updates the username, email or password.
type ProfileCmd struct {
	Username        string `help:"New username" validate:"omitempty,min=3,max=20"`
	Email           string `help:"New email" validate:"omitempty,email"`
	CurrentPassword string `help:"Current password, required to change it" env:"SURPLUS_PASSWORD" validate:"required_with=NewPassword"`
	NewPassword     string `help:"New password" env:"SURPLUS_NEW_PASSWORD" validate:"omitempty,min=8"`
	ConfirmPassword string `help:"Repeat the new password" env:"SURPLUS_CONFIRM_PASSWORD" validate:"eqfield=NewPassword"`
}

func (c *ProfileCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSignIn(); err != nil {
		return err
	}

	if err := validateForm(c); err != nil {
		return err
	}

	current := a.session.User()
	update := client.ProfileUpdate{
		Username: current.Username,
		Email:    current.Email,
	}
	if c.Username != "" {
		update.Username = c.Username
	}
	if c.Email != "" {
		update.Email = c.Email
	}
	if c.NewPassword != "" {
		update.CurrentPassword = c.CurrentPassword
		update.NewPassword = c.NewPassword
	}

	user, err := a.api.UpdateProfile(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if err := a.session.UpdateUser(*user); err != nil {
		return err
	}

	a.println("Profile updated successfully!")
	return nil
}

// BecomeSellerCmd upgrades a customer account to a seller account.
type BecomeSellerCmd struct{}

func (c *BecomeSellerCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}
	if err := a.requireSignIn(); err != nil {
		return err
	}

	if a.session.User().IsSeller() {
		a.println("You already have a seller account.")
		return nil
	}

	user, err := a.api.ApplySeller(ctx)
	if err != nil {
		return fmt.Errorf("failed to upgrade account: %w", err)
	}

	if err := a.session.UpdateUser(*user); err != nil {
		return err
	}

	a.println("Your account is now a seller account. Create your store with:")
	a.println("  surplus store create --name <name> --address <address>")
	return nil
}
