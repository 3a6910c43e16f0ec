package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

var (
	claimErrors = errorMap{
		notFound: errors.ErrClaimNotFound,
		parent:   errors.ErrPolicyNotFound,
	}

	claimColumns = columns{
		repositories.FieldPolicyID:    identity,
		repositories.FieldOccurrence:  identity,
		repositories.FieldDescription: identity,
		repositories.FieldStatus:      identity,
	}
)

// ClaimRepository implementa repositories.ClaimRepository
type ClaimRepository struct {
	db *gorm.DB
}

// NewClaimRepository cria um novo ClaimRepository
func NewClaimRepository(db *gorm.DB) repositories.ClaimRepository {
	return &ClaimRepository{db: db}
}

func (r *ClaimRepository) Create(ctx context.Context, claim *entities.Claim) error {
	model := &ClaimModel{
		PolicyID:       claim.PolicyID,
		OccurrenceDate: claim.OccurrenceDate,
		Description:    claim.Description,
		Status:         string(claim.Status),
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return claimErrors.translate(err)
	}

	claim.ID = model.ID
	claim.CreatedAt = model.CreatedAt
	claim.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *ClaimRepository) FindByID(ctx context.Context, id uint) (*entities.Claim, error) {
	var model ClaimModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		return nil, claimErrors.translate(err)
	}
	return toClaimEntity(&model), nil
}

func (r *ClaimRepository) Update(ctx context.Context, id uint, fields repositories.Fields) error {
	return updateByID(ctx, dbFrom(ctx, r.db), &ClaimModel{}, id, fields, claimColumns, claimErrors)
}

func (r *ClaimRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, dbFrom(ctx, r.db), &ClaimModel{}, id, claimErrors)
}

func (r *ClaimRepository) List(ctx context.Context) ([]*entities.Claim, error) {
	return r.find(r.getDB(ctx).Order("id"))
}

func (r *ClaimRepository) ListByPolicy(ctx context.Context, policyID uint) ([]*entities.Claim, error) {
	return r.find(r.getDB(ctx).Where("policy_id = ?", policyID).Order("id"))
}

func (r *ClaimRepository) find(query *gorm.DB) ([]*entities.Claim, error) {
	var models []*ClaimModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	claims := make([]*entities.Claim, 0, len(models))
	for _, m := range models {
		claims = append(claims, toClaimEntity(m))
	}
	return claims, nil
}

func (r *ClaimRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).WithContext(ctx)
}

func toClaimEntity(m *ClaimModel) *entities.Claim {
	return &entities.Claim{
		ID:             m.ID,
		PolicyID:       m.PolicyID,
		OccurrenceDate: m.OccurrenceDate,
		Description:    m.Description,
		Status:         entities.ClaimStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
