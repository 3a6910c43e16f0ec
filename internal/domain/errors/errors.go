package errors

import (
	"errors"
	"strings"
)

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções estão em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound       = errors.New("error.user_not_found")
	ErrUsernameTaken      = errors.New("error.username_taken")
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrUnauthorized       = errors.New("error.unauthorized")
	ErrForbidden          = errors.New("error.forbidden")

	ErrCustomerNotFound  = errors.New("error.customer_not_found")
	ErrCPFAlreadyExists  = errors.New("error.cpf_already_exists")
	ErrMissingBirthDate  = errors.New("error.missing_birth_date")
	ErrUnderageAuto      = errors.New("error.underage_auto")
	ErrGuardianRequired  = errors.New("error.guardian_required")
	ErrProductNotFound   = errors.New("error.product_not_found")
	ErrProductNotOwned   = errors.New("error.product_not_owned")
	ErrPolicyNotFound    = errors.New("error.policy_not_found")
	ErrPolicyCancelled   = errors.New("error.policy_already_cancelled")
	ErrPolicyNotActive   = errors.New("error.policy_not_active")
	ErrClaimNotFound     = errors.New("error.claim_not_found")
	ErrNothingToUpdate   = errors.New("error.nothing_to_update")
	ErrUnknownField      = errors.New("error.unknown_field")
	ErrDocumentStoreDown = errors.New("error.document_store_unavailable")
)

// Domain errors
// Nota: Estes são códigos de erro (message IDs para i18n).
var (
	ErrInvalidEmail       = errors.New("error.invalid_email")
	ErrInvalidCPF         = errors.New("error.invalid_cpf")
	ErrInvalidPlate       = errors.New("error.invalid_plate")
	ErrInvalidDate        = errors.New("error.invalid_date")
	ErrFutureDate         = errors.New("error.future_date")
	ErrInvalidValue       = errors.New("error.invalid_value")
	ErrInvalidProductType = errors.New("error.invalid_product_type")
	ErrInvalidClaimStatus = errors.New("error.invalid_claim_status")
	ErrInvalidRole        = errors.New("error.invalid_role")
	ErrValidation         = errors.New("error.validation")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeBadRequest   = "/problems/bad-request"
)

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Type    string
	Title   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// FieldError descreve a falha de validação de um campo
type FieldError struct {
	Field string
	Tag   string
}

// ValidationErrors agrupa falhas de validação; Is(ErrValidation) é verdadeiro
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.Field + ":" + f.Tag
	}
	return ErrValidation.Error() + " (" + strings.Join(parts, ", ") + ")"
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// MessageID devolve o código i18n associado a err, se houver
func MessageID(err error) (string, bool) {
	for _, sentinel := range catalog {
		if errors.Is(err, sentinel) {
			return sentinel.Error(), true
		}
	}
	return "", false
}

// ProblemTypeOf classifica err em um tipo de problema RFC 7807
func ProblemTypeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) && de.Type != "" {
		return de.Type
	}

	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrProductNotFound), errors.Is(err, ErrPolicyNotFound),
		errors.Is(err, ErrClaimNotFound):
		return ProblemTypeNotFound
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrCPFAlreadyExists),
		errors.Is(err, ErrPolicyCancelled):
		return ProblemTypeConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return ProblemTypeUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUnderageAuto),
		errors.Is(err, ErrGuardianRequired):
		return ProblemTypeForbidden
	case errors.Is(err, ErrValidation):
		return ProblemTypeValidation
	}

	if _, ok := MessageID(err); ok {
		return ProblemTypeBadRequest
	}
	return ProblemTypeInternal
}

var catalog = []error{
	ErrUserNotFound, ErrUsernameTaken, ErrInvalidCredentials, ErrUnauthorized, ErrForbidden,
	ErrCustomerNotFound, ErrCPFAlreadyExists, ErrMissingBirthDate, ErrUnderageAuto,
	ErrGuardianRequired, ErrProductNotFound, ErrProductNotOwned, ErrPolicyNotFound,
	ErrPolicyCancelled, ErrPolicyNotActive, ErrClaimNotFound, ErrNothingToUpdate,
	ErrUnknownField, ErrDocumentStoreDown,
	ErrInvalidEmail, ErrInvalidCPF, ErrInvalidPlate, ErrInvalidDate, ErrFutureDate,
	ErrInvalidValue, ErrInvalidProductType, ErrInvalidClaimStatus, ErrInvalidRole,
	ErrValidation,
}
