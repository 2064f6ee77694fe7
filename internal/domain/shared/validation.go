package shared

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide validator. Field names in errors are
// taken from the json tag so they match the persisted record shape.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs struct-tag validation on v and converts failures into a
// DomainError of kind ErrValidation. extra carries checks that tags cannot
// express (e.g. a required calendar date).
func ValidateStruct(domain, op string, v any, extra ...FieldError) error {
	fields := append([]FieldError(nil), extra...)

	if err := Validator().Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return WrapError(domain, op, ErrValidation, "invalid "+domain, err)
		}
		for _, fe := range verrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			fields = append(fields, FieldError{Field: fe.Field(), Rule: rule})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    ErrValidation,
		Message: "invalid " + domain,
		Fields:  fields,
	}
}
