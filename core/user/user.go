package user

import (
	"context"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

const (
	RoleAdmin      = "ADMIN"
	RoleInstructor = "INSTRUCTOR"
	RoleStudent    = "STUDENT"
)

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u User) IsInstructor() bool { return u.Role == RoleInstructor }

type Up struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// Merge lays the server-returned fields over an existing user. The server
// may echo back only what changed, so empty fields keep their old value.
func Merge(dst User, src User) User {
	if src.ID != "" {
		dst.ID = src.ID
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Role != "" {
		dst.Role = src.Role
	}
	if src.AvatarURL != "" {
		dst.AvatarURL = src.AvatarURL
	}
	return dst
}

func Current(ctx context.Context, c *api.Client) (User, error) {
	return api.Get[User](ctx, c, "/users/current", nil)
}

func Update(ctx context.Context, c *api.Client, up Up) (User, error) {
	if err := validate.Check(up); err != nil {
		return User{}, err
	}
	return api.Put[User](ctx, c, "/users/current", up)
}

func Fetch(ctx context.Context, c *api.Client, id string) (User, error) {
	if err := validate.CheckID(id); err != nil {
		return User{}, err
	}
	return api.Get[User](ctx, c, "/users/"+id, nil)
}
