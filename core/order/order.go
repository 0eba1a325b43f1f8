package order

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
	Success  Status = "success"
	Expired  Status = "expired"
	Refunded Status = "refunded"
)

type Item struct {
	CourseID   string `json:"courseId"`
	Title      string `json:"title"`
	PriceCents int    `json:"priceCents"`
}

type Order struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Status     Status    `json:"status"`
	TotalCents int       `json:"totalCents"`
	Currency   string    `json:"currency"`
	Items      []Item    `json:"items"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type StatusUp struct {
	Status Status `json:"status" validate:"required,oneof=pending success expired refunded"`
}

type Query struct {
	Page    int
	PerPage int
	Search  string
	Status  Status
	UserID  string
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
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.UserID != "" {
		v.Set("userId", q.UserID)
	}
	return v
}

func List(ctx context.Context, c *api.Client, q Query) (api.Page[Order], error) {
	return api.Get[api.Page[Order]](ctx, c, "/orders", q.Values())
}

func Fetch(ctx context.Context, c *api.Client, id string) (Order, error) {
	if err := validate.CheckID(id); err != nil {
		return Order{}, err
	}
	return api.Get[Order](ctx, c, "/orders/"+id, nil)
}

func UpdateStatus(ctx context.Context, c *api.Client, id string, up StatusUp) (Order, error) {
	if err := validate.CheckID(id); err != nil {
		return Order{}, err
	}
	if err := validate.Check(up); err != nil {
		return Order{}, err
	}
	return api.Put[Order](ctx, c, "/orders/"+id+"/status", up)
}
