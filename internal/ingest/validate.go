package ingest

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Iron-Ham/remedy/internal/errors"
)

var documentValidate *validator.Validate

func init() {
	documentValidate = validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their document names rather than Go names.
	documentValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks every issue and pattern in doc. It returns nil or an
// error joining one *errors.ValidationError per failing field; use
// errors.ValidationErrors to list them.
func Validate(doc *Document) error {
	err := documentValidate.Struct(doc)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "validation failed")
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		errs = append(errs, formatValidationError(e))
	}
	return errors.Join(errs...)
}

// formatValidationError converts a validator.FieldError into a
// ValidationError keyed by its document path, e.g. "issues[2].severity".
func formatValidationError(e validator.FieldError) *errors.ValidationError {
	field := e.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	var msg string
	switch e.Tag() {
	case "required":
		msg = "is required"
	case "oneof":
		msg = fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "gte":
		msg = fmt.Sprintf("must be at least %s", e.Param())
	default:
		msg = fmt.Sprintf("failed validation: %s", e.Tag())
	}

	verr := errors.NewValidationError(msg).WithField(field)
	if e.Tag() != "required" {
		verr.WithValue(e.Value())
	}
	return verr
}
