package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

var (
	// Uma apólice referencia cliente e seguro; a violação mais comum é o seguro inexistente
	policyErrors = errorMap{
		notFound: errors.ErrPolicyNotFound,
		parent:   errors.ErrProductNotFound,
	}

	policyColumns = columns{
		repositories.FieldCustomerID: identity,
		repositories.FieldProductID:  identity,
		repositories.FieldIssueDate:  identity,
		repositories.FieldStatus:     identity,
	}
)

// PolicyRepository implementa repositories.PolicyRepository
type PolicyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository cria um novo PolicyRepository
func NewPolicyRepository(db *gorm.DB) repositories.PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) Create(ctx context.Context, policy *entities.Policy) error {
	model := &PolicyModel{
		CustomerID: policy.CustomerID,
		ProductID:  policy.ProductID,
		IssueDate:  policy.IssueDate,
		Status:     string(policy.Status),
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return policyErrors.translate(err)
	}

	policy.ID = model.ID
	policy.CreatedAt = model.CreatedAt
	policy.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *PolicyRepository) FindByID(ctx context.Context, id uint) (*entities.Policy, error) {
	var model PolicyModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		return nil, policyErrors.translate(err)
	}
	return toPolicyEntity(&model), nil
}

func (r *PolicyRepository) Update(ctx context.Context, id uint, fields repositories.Fields) error {
	return updateByID(ctx, dbFrom(ctx, r.db), &PolicyModel{}, id, fields, policyColumns, policyErrors)
}

func (r *PolicyRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, dbFrom(ctx, r.db), &PolicyModel{}, id, policyErrors)
}

func (r *PolicyRepository) List(ctx context.Context) ([]*entities.Policy, error) {
	return r.find(r.getDB(ctx).Order("id"))
}

func (r *PolicyRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*entities.Policy, error) {
	return r.find(r.getDB(ctx).Where("customer_id = ?", customerID).Order("id"))
}

func (r *PolicyRepository) find(query *gorm.DB) ([]*entities.Policy, error) {
	var models []*PolicyModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	policies := make([]*entities.Policy, 0, len(models))
	for _, m := range models {
		policies = append(policies, toPolicyEntity(m))
	}
	return policies, nil
}

func (r *PolicyRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).WithContext(ctx)
}

func toPolicyEntity(m *PolicyModel) *entities.Policy {
	return &entities.Policy{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		ProductID:  m.ProductID,
		IssueDate:  m.IssueDate,
		Status:     entities.PolicyStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
