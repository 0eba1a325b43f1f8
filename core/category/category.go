package category

import (
	"context"
	"net/url"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

type Kind string

const (
	KindCourse Kind = "course"
	KindPost   Kind = "post"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Kind Kind   `json:"kind"`
}

type CategoryNew struct {
	Name string `json:"name" validate:"required"`
	Kind Kind   `json:"kind" validate:"required,oneof=course post"`
}

type CategoryUp struct {
	Name *string `json:"name,omitempty"`
}

func List(ctx context.Context, c *api.Client, kind Kind) ([]Category, error) {
	v := url.Values{}
	if kind != "" {
		v.Set("kind", string(kind))
	}
	return api.Get[[]Category](ctx, c, "/categories", v)
}

func Create(ctx context.Context, c *api.Client, nc CategoryNew) (Category, error) {
	if err := validate.Check(nc); err != nil {
		return Category{}, err
	}
	return api.Post[Category](ctx, c, "/categories", nc)
}

func Update(ctx context.Context, c *api.Client, id string, up CategoryUp) (Category, error) {
	if err := validate.CheckID(id); err != nil {
		return Category{}, err
	}
	return api.Put[Category](ctx, c, "/categories/"+id, up)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/categories/"+id)
	return err
}
