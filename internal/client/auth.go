package client

import (
	"context"

	"github.com/wolfeidau/surplus/internal/models"
)

// Credentials is the body for POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body for POST /auth/register.
type Registration struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ProfileUpdate is the body for PUT /auth/profile. The password fields are
// only sent when changing the password.
type ProfileUpdate struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

type userResponse struct {
	Message string      `json:"message,omitempty"`
	User    models.User `json:"user"`
}

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "/auth/login", creds, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its token and user.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResponse, error) {
	if reg.Role == "" {
		reg.Role = models.RoleCustomer
	}

	var out AuthResponse
	if err := c.post(ctx, "/auth/register", reg, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the username, email or password of the signed in user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	var out userResponse
	if err := c.put(ctx, "/auth/profile", update, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ApplySeller upgrades the signed in customer to a seller account.
func (c *Client) ApplySeller(ctx context.Context) (*models.User, error) {
	var out userResponse
	if err := c.put(ctx, "/auth/apply-seller", struct{}{}, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}
