package lesson

import (
	"context"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

type Lesson struct {
	ID          string    `json:"id"`
	ModuleID    string    `json:"moduleId"`
	Title       string    `json:"title"`
	VideoURL    string    `json:"videoUrl"`
	DurationSec int       `json:"durationSec"`
	Position    int       `json:"position"`
	Preview     bool      `json:"preview"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type LessonNew struct {
	Title       string `json:"title" validate:"required"`
	VideoURL    string `json:"videoUrl" validate:"required,url"`
	DurationSec int    `json:"durationSec" validate:"gte=0"`
	Preview     bool   `json:"preview"`
}

type LessonUp struct {
	Title       *string `json:"title,omitempty"`
	VideoURL    *string `json:"videoUrl,omitempty" validate:"omitempty,url"`
	DurationSec *int    `json:"durationSec,omitempty" validate:"omitempty,gte=0"`
	Position    *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
	Preview     *bool   `json:"preview,omitempty"`
}

func ListByModule(ctx context.Context, c *api.Client, moduleID string) ([]Lesson, error) {
	if err := validate.CheckID(moduleID); err != nil {
		return nil, err
	}
	return api.Get[[]Lesson](ctx, c, "/modules/"+moduleID+"/lessons", nil)
}

func Fetch(ctx context.Context, c *api.Client, id string) (Lesson, error) {
	if err := validate.CheckID(id); err != nil {
		return Lesson{}, err
	}
	return api.Get[Lesson](ctx, c, "/lessons/"+id, nil)
}

func Create(ctx context.Context, c *api.Client, moduleID string, nl LessonNew) (Lesson, error) {
	if err := validate.CheckID(moduleID); err != nil {
		return Lesson{}, err
	}
	if err := validate.Check(nl); err != nil {
		return Lesson{}, err
	}
	return api.Post[Lesson](ctx, c, "/modules/"+moduleID+"/lessons", nl)
}

func Update(ctx context.Context, c *api.Client, id string, up LessonUp) (Lesson, error) {
	if err := validate.CheckID(id); err != nil {
		return Lesson{}, err
	}
	if err := validate.Check(up); err != nil {
		return Lesson{}, err
	}
	return api.Put[Lesson](ctx, c, "/lessons/"+id, up)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/lessons/"+id)
	return err
}
