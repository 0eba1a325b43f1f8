// Package module covers course sections (ordered groups of lessons).
package module

import (
	"context"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

type Module struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ModuleNew struct {
	Title string `json:"title" validate:"required"`
}

type ModuleUp struct {
	Title    *string `json:"title,omitempty"`
	Position *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
}

func ListByCourse(ctx context.Context, c *api.Client, courseID string) ([]Module, error) {
	if err := validate.CheckID(courseID); err != nil {
		return nil, err
	}
	return api.Get[[]Module](ctx, c, "/courses/"+courseID+"/modules", nil)
}

func Create(ctx context.Context, c *api.Client, courseID string, nm ModuleNew) (Module, error) {
	if err := validate.CheckID(courseID); err != nil {
		return Module{}, err
	}
	if err := validate.Check(nm); err != nil {
		return Module{}, err
	}
	return api.Post[Module](ctx, c, "/courses/"+courseID+"/modules", nm)
}

func Update(ctx context.Context, c *api.Client, id string, up ModuleUp) (Module, error) {
	if err := validate.CheckID(id); err != nil {
		return Module{}, err
	}
	if err := validate.Check(up); err != nil {
		return Module{}, err
	}
	return api.Put[Module](ctx, c, "/modules/"+id, up)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/modules/"+id)
	return err
}

// Reorder replaces the position of every module of a course in one call.
func Reorder(ctx context.Context, c *api.Client, courseID string, ids []string) ([]Module, error) {
	if err := validate.CheckID(courseID); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := validate.CheckID(id); err != nil {
			return nil, err
		}
	}
	body := struct {
		ModuleIDs []string `json:"moduleIds"`
	}{ids}
	return api.Put[[]Module](ctx, c, "/courses/"+courseID+"/modules/order", body)
}
