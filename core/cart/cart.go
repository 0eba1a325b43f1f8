package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

// Course is the slice of a course a cart line item references.
type Course struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PriceCents int    `json:"priceCents"`
	Currency   string `json:"currency"`
}

type Item struct {
	Course  Course    `json:"course"`
	AddedAt time.Time `json:"addedAt"`
}

type Summary struct {
	TotalPublishedCourses int    `json:"totalPublishedCourses"`
	TotalPriceCents       int    `json:"totalPriceCents"`
	Currency              string `json:"currency"`
}

type Cart struct {
	Items   []Item  `json:"items"`
	Summary Summary `json:"summary"`
}

type ItemNew struct {
	CourseID string `json:"courseId"`
}

// Summarize recomputes the derived summary from the items. The server's
// summary remains authoritative; this exists for the optimistic paths.
func Summarize(items []Item) Summary {
	s := Summary{
		TotalPublishedCourses: len(items),
		Currency:              "USD",
	}
	for _, it := range items {
		s.TotalPriceCents += it.Course.PriceCents
		if it.Course.Currency != "" {
			s.Currency = it.Course.Currency
		}
	}
	return s
}

func Fetch(ctx context.Context, c *api.Client) (Cart, error) {
	return api.Get[Cart](ctx, c, "/cart", nil)
}

func AddItem(ctx context.Context, c *api.Client, courseID string) error {
	if err := validate.CheckID(courseID); err != nil {
		return err
	}
	_, err := api.Put[struct{}](ctx, c, "/cart/items", ItemNew{CourseID: courseID})
	return err
}

func RemoveItem(ctx context.Context, c *api.Client, courseID string) error {
	if err := validate.CheckID(courseID); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/cart/items/"+courseID)
	return err
}

func Clear(ctx context.Context, c *api.Client) error {
	_, err := c.Do(ctx, http.MethodDelete, "/cart", nil, nil)
	return err
}
