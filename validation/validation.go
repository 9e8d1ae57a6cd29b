// Package validation turns struct tag failures into field -> code maps.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// Report json field names so violations line up with request payloads.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// Struct runs the `validate` tags of s and maps every failure to field -> tag.
func Struct(s any) Violations {
	v := Violations{}
	err := instance().Struct(s)
	if err == nil {
		return v
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		v["_"] = err.Error()
		return v
	}
	for _, fe := range ves {
		v[fe.Field()] = violationCode(fe.Tag())
	}
	return v
}

func violationCode(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "gte":
		return "must_not_be_negative"
	case "oneof":
		return "invalid_value"
	default:
		return tag
	}
}
