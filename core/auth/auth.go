// Package auth wraps the session endpoints. Session issuance itself is the
// server's business; the client only carries the session cookie around.
package auth

import (
	"context"
	"net/http"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

type Credentials struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func Login(ctx context.Context, c *api.Client, creds Credentials) error {
	if err := validate.Check(creds); err != nil {
		return err
	}
	_, err := c.Do(ctx, http.MethodPost, "/auth/login", nil, creds)
	return err
}

func Logout(ctx context.Context, c *api.Client) error {
	_, err := c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// LogoutAll revokes every session of the current user, not just this one.
func LogoutAll(ctx context.Context, c *api.Client) error {
	_, err := c.Do(ctx, http.MethodPost, "/auth/logout-all", nil, nil)
	return err
}
