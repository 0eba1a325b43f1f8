package validate

import (
	"errors"

	"github.com/engpro/engpro-go/apierr"
	"github.com/go-playground/locales/vi"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	vi_translations "github.com/go-playground/validator/v10/translations/vi"
	"github.com/google/uuid"
)

var validate *validator.Validate

var translator ut.Translator

func init() {

	validate = validator.New()

	translator, _ = ut.New(vi.New(), vi.New()).GetTranslator("vi")
	vi_translations.RegisterDefaultTranslations(validate, translator)
}

// Check validates a payload struct and surfaces the first violation as a
// ValidationInvalid error with the translated message.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {

		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		if len(verrors) < 1 {
			return nil
		}

		msg := verrors[0].Translate(translator)
		return apierr.InvalidMsg(msg, errors.New(msg))
	}

	return nil
}

func GenerateID() string {
	return uuid.NewString()
}

func CheckID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apierr.Invalid(errors.New("ID is not in its proper form"))
	}
	return nil
}
