package comment

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
	Hidden   Status = "hidden"
)

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Query struct {
	Page    int
	PerPage int
	PostID  string
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
	if q.PostID != "" {
		v.Set("postId", q.PostID)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

func List(ctx context.Context, c *api.Client, q Query) (api.Page[Comment], error) {
	return api.Get[api.Page[Comment]](ctx, c, "/comments", q.Values())
}

func Approve(ctx context.Context, c *api.Client, id string) (Comment, error) {
	if err := validate.CheckID(id); err != nil {
		return Comment{}, err
	}
	return api.Post[Comment](ctx, c, "/comments/"+id+"/approve", nil)
}

func Hide(ctx context.Context, c *api.Client, id string) (Comment, error) {
	if err := validate.CheckID(id); err != nil {
		return Comment{}, err
	}
	return api.Post[Comment](ctx, c, "/comments/"+id+"/hide", nil)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/comments/"+id)
	return err
}
