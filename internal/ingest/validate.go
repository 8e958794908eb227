package ingest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("VALIDATION")

var (
	v     *validator.Validate
	vOnce sync.Once
)

func Validator() *validator.Validate {
	vOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// nombres de campo como en el JSON de entrada
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return v
}

// Validate devuelve nil o un error que envuelve ErrInvalid con un mensaje legible.
func Validate(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("%w: invalid input", ErrInvalid)
	}
	fe := ve[0]
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalid, field)
	case "len":
		return fmt.Errorf("%w: %s must have %s items", ErrInvalid, field, fe.Param())
	case "unique":
		return fmt.Errorf("%w: %s must not repeat %s", ErrInvalid, field, strings.ToLower(fe.Param()))
	case "min", "gte":
		return fmt.Errorf("%w: %s must be >= %s", ErrInvalid, field, fe.Param())
	}
	return fmt.Errorf("%w: invalid %s", ErrInvalid, field)
}

// quita el nombre del struct raíz: "DatasetInput.regions[0].name" -> "regions[0].name"
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
