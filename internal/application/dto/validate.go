package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/formaciones-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// los campos se reportan con su nombre JSON
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate aplica las etiquetas `validate` de un DTO de entrada.
// Devuelve *domain.ValidationError con un campo por regla incumplida.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	verr := &domain.ValidationError{}
	for _, f := range fields {
		verr.Add(f.Field(), fieldMessage(f))
	}
	return verr
}

func fieldMessage(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return "es requerido"
	case "min":
		if f.Kind() == reflect.String {
			return "debe tener al menos " + f.Param() + " caracteres"
		}
		return "debe ser mayor o igual a " + f.Param()
	case "max":
		if f.Kind() == reflect.String {
			return "debe tener como máximo " + f.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + f.Param()
	case "email":
		return "no es un email válido"
	case "oneof":
		return "debe ser uno de: " + f.Param()
	default:
		return "no cumple la regla " + f.Tag()
	}
}
