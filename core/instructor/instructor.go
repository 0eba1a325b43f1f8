// Package instructor covers requests by students to become instructors.
package instructor

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

type Request struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Query struct {
	Page    int
	PerPage int
	Status  Status
}

func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(q.PerPage))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

func List(ctx context.Context, c *api.Client, q Query) (api.Page[Request], error) {
	return api.Get[api.Page[Request]](ctx, c, "/instructor-requests", q.Values())
}

func Approve(ctx context.Context, c *api.Client, id string) (Request, error) {
	if err := validate.CheckID(id); err != nil {
		return Request{}, err
	}
	return api.Post[Request](ctx, c, "/instructor-requests/"+id+"/approve", nil)
}

func Reject(ctx context.Context, c *api.Client, id string) (Request, error) {
	if err := validate.CheckID(id); err != nil {
		return Request{}, err
	}
	return api.Post[Request](ctx, c, "/instructor-requests/"+id+"/reject", nil)
}
