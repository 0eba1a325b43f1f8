package post

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

type Status string

const (
	Draft     Status = "draft"
	Published Status = "published"
)

type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	CoverURL   string    `json:"coverUrl"`
	CategoryID string    `json:"categoryId"`
	AuthorID   string    `json:"authorId"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type PostNew struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	CategoryID string `json:"categoryId" validate:"required,uuid4"`
	CoverURL   string `json:"coverUrl" validate:"omitempty,url"`
}

type PostUp struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *string `json:"categoryId,omitempty" validate:"omitempty,uuid4"`
	CoverURL   *string `json:"coverUrl,omitempty" validate:"omitempty,url"`
}

type Query struct {
	Page       int
	PerPage    int
	Search     string
	CategoryID string
	Status     Status
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		v.Set("categoryId", q.CategoryID)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

func List(ctx context.Context, c *api.Client, q Query) (api.Page[Post], error) {
	return api.Get[api.Page[Post]](ctx, c, "/posts", q.Values())
}

func Fetch(ctx context.Context, c *api.Client, id string) (Post, error) {
	if err := validate.CheckID(id); err != nil {
		return Post{}, err
	}
	return api.Get[Post](ctx, c, "/posts/"+id, nil)
}

func Create(ctx context.Context, c *api.Client, np PostNew) (Post, error) {
	if err := validate.Check(np); err != nil {
		return Post{}, err
	}
	return api.Post[Post](ctx, c, "/posts", np)
}

func Update(ctx context.Context, c *api.Client, id string, up PostUp) (Post, error) {
	if err := validate.CheckID(id); err != nil {
		return Post{}, err
	}
	if err := validate.Check(up); err != nil {
		return Post{}, err
	}
	return api.Put[Post](ctx, c, "/posts/"+id, up)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/posts/"+id)
	return err
}

func Publish(ctx context.Context, c *api.Client, id string) (Post, error) {
	if err := validate.CheckID(id); err != nil {
		return Post{}, err
	}
	return api.Post[Post](ctx, c, "/posts/"+id+"/publish", nil)
}

func Unpublish(ctx context.Context, c *api.Client, id string) (Post, error) {
	if err := validate.CheckID(id); err != nil {
		return Post{}, err
	}
	return api.Post[Post](ctx, c, "/posts/"+id+"/unpublish", nil)
}
