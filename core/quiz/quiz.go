package quiz

import (
	"context"
	"time"

	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/validate"
)

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
	Answer  int      `json:"answer"`
}

type Quiz struct {
	ID        string     `json:"id"`
	LessonID  string     `json:"lessonId"`
	Title     string     `json:"title"`
	PassScore int        `json:"passScore"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type QuestionNew struct {
	Prompt  string   `json:"prompt" validate:"required"`
	Choices []string `json:"choices" validate:"required,min=2"`
	Answer  int      `json:"answer" validate:"gte=0"`
}

type QuizNew struct {
	Title     string        `json:"title" validate:"required"`
	PassScore int           `json:"passScore" validate:"gte=0,lte=100"`
	Questions []QuestionNew `json:"questions" validate:"required,min=1,dive"`
}

type QuizUp struct {
	Title     *string       `json:"title,omitempty"`
	PassScore *int          `json:"passScore,omitempty" validate:"omitempty,gte=0,lte=100"`
	Questions []QuestionNew `json:"questions,omitempty" validate:"omitempty,min=1,dive"`
}

func FetchByLesson(ctx context.Context, c *api.Client, lessonID string) (Quiz, error) {
	if err := validate.CheckID(lessonID); err != nil {
		return Quiz{}, err
	}
	return api.Get[Quiz](ctx, c, "/lessons/"+lessonID+"/quiz", nil)
}

func Create(ctx context.Context, c *api.Client, lessonID string, nq QuizNew) (Quiz, error) {
	if err := validate.CheckID(lessonID); err != nil {
		return Quiz{}, err
	}
	if err := validate.Check(nq); err != nil {
		return Quiz{}, err
	}
	return api.Post[Quiz](ctx, c, "/lessons/"+lessonID+"/quiz", nq)
}

func Update(ctx context.Context, c *api.Client, id string, up QuizUp) (Quiz, error) {
	if err := validate.CheckID(id); err != nil {
		return Quiz{}, err
	}
	if err := validate.Check(up); err != nil {
		return Quiz{}, err
	}
	return api.Put[Quiz](ctx, c, "/quizzes/"+id, up)
}

func Delete(ctx context.Context, c *api.Client, id string) error {
	if err := validate.CheckID(id); err != nil {
		return err
	}
	_, err := api.Delete[struct{}](ctx, c, "/quizzes/"+id)
	return err
}
