package http

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/handlers/dto"
)

// renderProblems transforma o último erro registrado no contexto em uma resposta RFC 7807
func renderProblems() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		dto.WriteProblem(c, c.Errors.Last().Err)
	}
}

// bindingError converte falhas do binding do Gin em erros de domínio
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		out := make(errors.ValidationErrors, len(verrs))
		for i, fe := range verrs {
			out[i] = errors.FieldError{Field: fe.Field(), Tag: fe.Tag()}
		}
		return out
	}
	return &errors.DomainError{
		Type:    errors.ProblemTypeValidation,
		Message: errors.ErrValidation.Error(),
		Err:     errors.ErrValidation,
	}
}
