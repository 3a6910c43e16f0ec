package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

var (
	productErrors = errorMap{
		notFound: errors.ErrProductNotFound,
		parent:   errors.ErrCustomerNotFound,
	}

	productColumns = columns{
		repositories.FieldType:        identity,
		repositories.FieldDescription: identity,
		repositories.FieldValue:       identity,
		repositories.FieldDetails:     detailsJSON,
		repositories.FieldCustomerID:  identity,
	}
)

// ProductRepository implementa repositories.ProductRepository
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository cria um novo ProductRepository
func NewProductRepository(db *gorm.DB) repositories.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	model, err := toProductModel(product)
	if err != nil {
		return err
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return productErrors.translate(err)
	}

	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*entities.Product, error) {
	var model ProductModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		return nil, productErrors.translate(err)
	}
	return toProductEntity(&model)
}

func (r *ProductRepository) Update(ctx context.Context, id uint, fields repositories.Fields) error {
	return updateByID(ctx, dbFrom(ctx, r.db), &ProductModel{}, id, fields, productColumns, productErrors)
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, dbFrom(ctx, r.db), &ProductModel{}, id, productErrors)
}

func (r *ProductRepository) List(ctx context.Context) ([]*entities.Product, error) {
	return r.find(r.getDB(ctx).Order("id"))
}

func (r *ProductRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*entities.Product, error) {
	return r.find(r.getDB(ctx).Where("customer_id = ?", customerID).Order("id"))
}

func (r *ProductRepository) find(query *gorm.DB) ([]*entities.Product, error) {
	var models []*ProductModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	products := make([]*entities.Product, 0, len(models))
	for _, m := range models {
		p, err := toProductEntity(m)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).WithContext(ctx)
}

func toProductModel(p *entities.Product) (*ProductModel, error) {
	details, err := marshalDetails(p.Details)
	if err != nil {
		return nil, err
	}
	return &ProductModel{
		ID:          p.ID,
		Type:        string(p.Type),
		Description: p.Description,
		Value:       p.Value,
		Details:     details,
		CustomerID:  p.CustomerID,
	}, nil
}

func toProductEntity(m *ProductModel) (*entities.Product, error) {
	var details entities.ProductDetails
	if len(m.Details) > 0 && string(m.Details) != "null" {
		if err := json.Unmarshal(m.Details, &details); err != nil {
			return nil, fmt.Errorf("decode details of product %d: %w", m.ID, err)
		}
	}
	return &entities.Product{
		ID:          m.ID,
		Type:        entities.ProductType(m.Type),
		Description: m.Description,
		Value:       m.Value,
		Details:     details,
		CustomerID:  m.CustomerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}
