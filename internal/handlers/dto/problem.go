package dto

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/handlers/middleware"
)

// problemTooManyRequests é o tipo RFC 7807 do limite de requisições
const problemTooManyRequests = "/problems/too-many-requests"

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// Problem segue RFC 7807 (Problem Details for HTTP APIs) com a lista opcional de campos inválidos
type Problem struct {
	*problems.DefaultProblem
	Errors []ValidationError `json:"errors,omitempty"`
}

type problemKind struct {
	status   int
	titleKey string
}

var problemKinds = map[string]problemKind{
	errors.ProblemTypeValidation:   {http.StatusBadRequest, "problem.validation.title"},
	errors.ProblemTypeBadRequest:   {http.StatusBadRequest, "problem.bad_request.title"},
	errors.ProblemTypeNotFound:     {http.StatusNotFound, "problem.not_found.title"},
	errors.ProblemTypeConflict:     {http.StatusConflict, "problem.conflict.title"},
	errors.ProblemTypeUnauthorized: {http.StatusUnauthorized, "problem.unauthorized.title"},
	errors.ProblemTypeForbidden:    {http.StatusForbidden, "problem.forbidden.title"},
	errors.ProblemTypeInternal:     {http.StatusInternalServerError, "problem.internal.title"},
	problemTooManyRequests:         {http.StatusTooManyRequests, "problem.too_many_requests.title"},
}

// NewProblem traduz err em um Problem no idioma da requisição
func NewProblem(c *gin.Context, err error) *Problem {
	problemType := errors.ProblemTypeOf(err)
	detailKey := "error.internal"
	if id, ok := errors.MessageID(err); ok {
		detailKey = id
	}
	if stderrors.Is(err, middleware.ErrRateLimited) {
		problemType = problemTooManyRequests
		detailKey = "problem.too_many_requests.detail"
	}

	kind, ok := problemKinds[problemType]
	if !ok {
		problemType = errors.ProblemTypeInternal
		kind = problemKinds[problemType]
	}
	p := problems.NewDetailedProblem(kind.status, T(c, detailKey))
	p.Type = baseURL(c) + problemType
	p.Title = T(c, kind.titleKey)
	p.Instance = c.Request.URL.Path

	problem := &Problem{DefaultProblem: p}

	var verrs errors.ValidationErrors
	if stderrors.As(err, &verrs) {
		for _, f := range verrs {
			problem.Errors = append(problem.Errors, ValidationError{
				Field:   f.Field,
				Tag:     f.Tag,
				Message: T(c, "error.validation"),
			})
		}
	}
	return problem
}

// WriteProblem responde com o Problem correspondente a err
func WriteProblem(c *gin.Context, err error) {
	problem := NewProblem(c, err)
	c.Header("Content-Type", problems.ProblemMediaType)
	c.JSON(problem.Status, problem)
}

func baseURL(c *gin.Context) string {
	if url := c.GetString(BaseURLContextKey); url != "" {
		return url
	}
	return "http://localhost:8080"
}
