package review

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
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

type Review struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Query struct {
	Page     int
	PerPage  int
	CourseID string
	Status   Status
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(q.PerPage))
	}
	if q.CourseID != "" {
		v.Set("courseId", q.CourseID)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

func List(ctx context.Context, c *api.Client, q Query) (api.Page[Review], error) {
	return api.Get[api.Page[Review]](ctx, c, "/reviews", q.Values())
}

func Approve(ctx context.Context, c *api.Client, id string) (Review, error) {
	if err := validate.CheckID(id); err != nil {
		return Review{}, err
	}
	return api.Post[Review](ctx, c, "/reviews/"+id+"/approve", nil)
}

func Reject(ctx context.Context, c *api.Client, id string) (Review, error) {
	if err := validate.CheckID(id); err != nil {
		return Review{}, err
	}
	return api.Post[Review](ctx, c, "/reviews/"+id+"/reject", nil)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/reviews/"+id)
	return err
}
