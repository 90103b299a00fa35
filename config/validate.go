package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/adamwoolhether/restclient/client"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()

	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("config: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks cfg against the tags declared on [client.Config].
// client.New never validates, so callers that want early failures call this.
func Validate(cfg client.Config) error {
	if err := validate.Struct(cfg); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		var fields FieldErrors
		for _, verror := range verrors {
			name := fieldPath(verror.Namespace())
			field := FieldError{
				Field: name,
				Err:   customErrForTag(name, verror),
			}
			fields = append(fields, field)
		}

		return fields
	}

	return nil
}

// FieldError represents a single validation error for a specific field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface, returning a human-readable
// summary of all field errors.
func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

// fieldPath drops the root struct name: "Config.endpoint.host" -> "endpoint.host".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// customErrForTag phrases the endpoint rules in config terms; anything
// else falls back to the validator's English translation.
func customErrForTag(field string, verror validator.FieldError) string {
	switch verror.Tag() {
	case "required":
		return "This field is required"
	case "required_with":
		return fmt.Sprintf("This field is required when %s is set", siblingPath(field, verror.Param()))
	case "numeric":
		return fmt.Sprintf("This field must be numeric, got %q", fmt.Sprint(verror.Value()))
	default:
		return verror.Translate(translator)
	}
}

// siblingPath resolves a struct field named in a tag param against field's
// parent: ("endpoint.key", "Cert") -> "endpoint.cert".
func siblingPath(field, param string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[:i+1] + strings.ToLower(param)
	}
	return strings.ToLower(param)
}
