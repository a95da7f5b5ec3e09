package portal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/linskybing/scan2cad/internal/domain/user"
)

func (c *Client) Register(ctx context.Context, in user.RegisterInput) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", nil, in, nil)
}

// Login signs in and stores the token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (user.UserDTO, error) {
	var out user.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, user.LoginInput{Email: email, Password: password}, &out); err != nil {
		return user.UserDTO{}, err
	}
	if err := c.session.Login(out.Token, out.User); err != nil {
		return out.User, fmt.Errorf("save session: %w", err)
	}
	return out.User, nil
}

func (c *Client) Logout() error {
	return c.session.Logout()
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/verify-email", nil, user.VerifyEmailInput{Token: token}, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", nil, user.ForgotPasswordInput{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/reset-password", nil, user.ResetPasswordInput{Token: token, NewPassword: newPassword}, nil)
}

func (c *Client) Me(ctx context.Context) (user.UserDTO, error) {
	var out user.UserDTO
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

func (c *Client) Hours(ctx context.Context, userID uint) (user.HoursDTO, error) {
	var out user.HoursDTO
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d/hours", userID), nil, nil, &out)
	return out, err
}

func (c *Client) GrantHours(ctx context.Context, userID uint, hours float64) (user.HoursDTO, error) {
	var out user.HoursDTO
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/users/%d/hours", userID), nil, user.GrantHoursInput{Hours: hours}, &out)
	return out, err
}
