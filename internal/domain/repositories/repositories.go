package repositories

import (
	"context"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
)

// Fields descreve uma atualização parcial: nome do campo -> novo valor.
// Apenas os campos presentes são alterados.
type Fields map[string]any

// Campos atualizáveis por entidade
const (
	FieldName        = "name"
	FieldCPF         = "cpf"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldBirthDate   = "birth_date"
	FieldAddress     = "address"
	FieldType        = "type"
	FieldDescription = "description"
	FieldValue       = "value"
	FieldDetails     = "details"
	FieldCustomerID  = "customer_id"
	FieldProductID   = "product_id"
	FieldIssueDate   = "issue_date"
	FieldStatus      = "status"
	FieldPolicyID    = "policy_id"
	FieldOccurrence  = "occurrence_date"
)

// CustomerRepository define a interface para persistência de clientes
type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	FindByID(ctx context.Context, id uint) (*entities.Customer, error)
	FindByCPF(ctx context.Context, cpf string) (*entities.Customer, error)
	Update(ctx context.Context, id uint, fields Fields) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*entities.Customer, error)
}

// ProductRepository define a interface para persistência de seguros
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	FindByID(ctx context.Context, id uint) (*entities.Product, error)
	Update(ctx context.Context, id uint, fields Fields) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*entities.Product, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]*entities.Product, error)
}

// PolicyRepository define a interface para persistência de apólices
type PolicyRepository interface {
	Create(ctx context.Context, policy *entities.Policy) error
	FindByID(ctx context.Context, id uint) (*entities.Policy, error)
	Update(ctx context.Context, id uint, fields Fields) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*entities.Policy, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]*entities.Policy, error)
}

// ClaimRepository define a interface para persistência de sinistros
type ClaimRepository interface {
	Create(ctx context.Context, claim *entities.Claim) error
	FindByID(ctx context.Context, id uint) (*entities.Claim, error)
	Update(ctx context.Context, id uint, fields Fields) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*entities.Claim, error)
	ListByPolicy(ctx context.Context, policyID uint) ([]*entities.Claim, error)
}
