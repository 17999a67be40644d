package utils

import (
	"errors"
	"reflect"
	"strings"

	"space-booking-backend/pkg/models"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the project's custom types.
type Validator struct {
	validate *validator.Validate
}

// NewValidator 创建校验器：字段名使用 json 标签，models.Date 按零值判断 required
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(models.Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.String()
	}, models.Date{})

	return &Validator{validate: v}
}

// Struct validates s and returns the failing fields, if any.
func (v *Validator) Struct(s interface{}) ([]FieldError, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return fields, nil
}
