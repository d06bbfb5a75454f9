package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"usertodos/internal/core/model/response"
	"usertodos/internal/core/port"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var _ port.Validator = (*Validator)(nil)

func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// report json/form field names instead of Go field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]

			if name == "-" {
				return ""
			}

			if name != "" {
				return name
			}
		}

		return field.Name
	})

	english := en.New()
	uni := ut.New(english, english)

	translator, found := uni.GetTranslator("en")

	if !found {
		return nil, errors.New("translator en not found")
	}

	if err := validate.RegisterValidation("maxbytes", maxBytes); err != nil {
		return nil, err
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	if err := addCustomTranslations(validate, translator); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: translator}, nil
}

// maxBytes bounds the encoded length of a string; max counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())

	if err != nil {
		return false
	}

	return len(fl.Field().String()) <= limit
}

func addCustomTranslations(validate *validator.Validate, translator ut.Translator) error {
	err := validate.RegisterTranslation("datetime", translator, func(ut ut.Translator) error {
		return ut.Add("datetime", "{0} must be a date in the YYYY-MM-DD format", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("datetime", fe.Field())
		return t
	})

	if err != nil {
		return err
	}

	return validate.RegisterTranslation("maxbytes", translator, func(ut ut.Translator) error {
		return ut.Add("maxbytes", "{0} must be at most {1} bytes long", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("maxbytes", fe.Field(), fe.Param())
		return t
	})
}

func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *Validator) FormatValidationErrors(err error) []response.ValidationError {
	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return nil
	}

	result := make([]response.ValidationError, 0, len(validationErrors))

	for _, fieldError := range validationErrors {
		result = append(result, response.ValidationError{
			Field:   fieldError.Field(),
			Message: fieldError.Translate(v.translator),
		})
	}

	return result
}
