package course

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
	Archived  Status = "archived"
)

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	PriceCents   int       `json:"priceCents"`
	Currency     string    `json:"currency"`
	Status       Status    `json:"status"`
	CategoryID   string    `json:"categoryId"`
	InstructorID string    `json:"instructorId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CourseNew struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	PriceCents  int    `json:"priceCents" validate:"gte=0"`
	Currency    string `json:"currency" validate:"required,len=3"`
	CategoryID  string `json:"categoryId" validate:"required,uuid4"`
}

type CourseUp struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	PriceCents   *int    `json:"priceCents,omitempty" validate:"omitempty,gte=0"`
	Currency     *string `json:"currency,omitempty" validate:"omitempty,len=3"`
	CategoryID   *string `json:"categoryId,omitempty" validate:"omitempty,uuid4"`
}

type Query struct {
	Page       int
	PerPage    int
	Search     string
	CategoryID string
	Status     Status
	Sort       string
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
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

func List(ctx context.Context, c *api.Client, q Query) (api.Page[Course], error) {
	return api.Get[api.Page[Course]](ctx, c, "/courses", q.Values())
}

func Fetch(ctx context.Context, c *api.Client, id string) (Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Course{}, err
	}
	return api.Get[Course](ctx, c, "/courses/"+id, nil)
}

func Create(ctx context.Context, c *api.Client, nc CourseNew) (Course, error) {
	if err := validate.Check(nc); err != nil {
		return Course{}, err
	}
	return api.Post[Course](ctx, c, "/courses", nc)
}

func Update(ctx context.Context, c *api.Client, id string, up CourseUp) (Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Course{}, err
	}
	if err := validate.Check(up); err != nil {
		return Course{}, err
	}
	return api.Put[Course](ctx, c, "/courses/"+id, up)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/courses/"+id)
	return err
}

func Publish(ctx context.Context, c *api.Client, id string) (Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Course{}, err
	}
	return api.Post[Course](ctx, c, "/courses/"+id+"/publish", nil)
}

func Unpublish(ctx context.Context, c *api.Client, id string) (Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Course{}, err
	}
	return api.Post[Course](ctx, c, "/courses/"+id+"/unpublish", nil)
}
