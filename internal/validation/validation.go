package validation

import (
	"errors"

	"github.com/go-playground/locales/tr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	trtranslations "github.com/go-playground/validator/v10/translations/tr"
	"github.com/rs/zerolog"
)

// Validator bundles a validator instance with a Turkish translator so field
// errors surface in the application's language.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator with Turkish default translations registered.
func New(logger *zerolog.Logger) *Validator {
	trLocale := tr.New()
	uni := ut.New(trLocale, trLocale)

	trans, found := uni.GetTranslator("tr")
	if !found {
		logger.Fatal().Msg("failed to find turkish translator")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := trtranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		logger.Fatal().Err(err).Msg("failed to register validator translations")
	}

	return &Validator{
		validate: validate,
		trans:    trans,
	}
}

// Struct validates the given payload struct against its validate tags.
func (v *Validator) Struct(payload any) error {
	return v.validate.Struct(payload)
}

// Translate renders a validation error as a single localized message. Non
// validation errors fall back to a generic message.
func (v *Validator) Translate(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Translate(v.trans)
	}

	return "Geçersiz istek gövdesi"
}
