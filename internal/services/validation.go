package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/valueobjects"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Usar o nome do campo na tag json nas mensagens
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		_, err := valueobjects.NewCPF(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
		_, err := valueobjects.NewPlate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// tagErrors associa tags de validação a erros de domínio mais específicos
var tagErrors = map[string]error{
	"cpf":   domainerrors.ErrInvalidCPF,
	"email": domainerrors.ErrInvalidEmail,
	"plate": domainerrors.ErrInvalidPlate,
}

// validateStruct valida input e converte as falhas em erros de domínio
func validateStruct(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(domainerrors.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		if specific, ok := tagErrors[fe.Tag()]; ok {
			return specific
		}
		out = append(out, domainerrors.FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out
}
