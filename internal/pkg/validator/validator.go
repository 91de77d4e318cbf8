package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

var (
	rfc1035Re    = regexp.MustCompile(`^[a-z]([-a-z0-9]*[a-z0-9])?$`)
	commonNameRe = regexp.MustCompile(`^[a-zA-Z.\-_ ]+$`)
)

// Validator wraps go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// New creates a new validator instance. Field names in messages come from
// the `flag` struct tag so errors point at the command line flag.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("flag"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("rfc1035", func(fl validator.FieldLevel) bool {
		return rfc1035Re.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("commonname", func(fl validator.FieldLevel) bool {
		return commonNameRe.MatchString(fl.Field().String())
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct
func (v *Validator) Validate(i interface{}) []ValidationError {
	var validationErrors []ValidationError

	err := v.validate.Struct(i)
	if err != nil {
		var fieldErrors validator.ValidationErrors
		if !asValidationErrors(err, &fieldErrors) {
			return []ValidationError{{Message: err.Error()}}
		}
		for _, fe := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Value:   fmt.Sprintf("%v", fe.Value()),
				Message: msgForTag(fe),
			})
		}
	}

	return validationErrors
}

// Check validates a struct and folds any failures into a single
// VALIDATION_ERROR suitable for returning from a command.
func (v *Validator) Check(i interface{}) error {
	errs := v.Validate(i)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return apperrors.ValidationError(strings.Join(msgs, "; "), errs)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// msgForTag returns a human-readable message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("[%s] is required", field)
	case "required_with":
		return fmt.Sprintf("[%s] must be specified together with [%s]", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("[%s] must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("[%s] must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("[%s] must be one of [%s]", field, fe.Param())
	case "rfc1035":
		return fmt.Sprintf("[%s] must be an RFC1035 label, e.g. http or www1-static", field)
	case "commonname":
		return fmt.Sprintf("[%s] may only contain letters, '.', '-', '_' and spaces", field)
	default:
		return fmt.Sprintf("[%s] failed validation for tag: %s", field, fe.Tag())
	}
}
