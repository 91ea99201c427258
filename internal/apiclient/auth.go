package apiclient

import (
	"context"
	"net/http"

	"github.com/angelmondragon/stride-storefront/internal/auth"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
)

// Login exchanges credentials for a token and stores it when a credential
// store is configured.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	body := auth.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/auth/login", body: body}, &resp); err != nil {
		return nil, err
	}
	if c.credentials != nil {
		err := c.credentials.Save(ctx, Credentials{
			AccessToken: resp.AccessToken,
			ExpiresAt:   resp.ExpiresAt,
			Email:       resp.Admin.Email,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store credentials")
		}
	}
	return &resp, nil
}

// Logout forgets the stored token. Tokens are stateless, so the API is not called.
func (c *Client) Logout(ctx context.Context) error {
	if c.credentials == nil {
		return nil
	}
	return c.credentials.Clear(ctx)
}

func (c *Client) Me(ctx context.Context) (*auth.AdminDTO, error) {
	var admin auth.AdminDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/admin/auth/me", authenticated: true}, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}
