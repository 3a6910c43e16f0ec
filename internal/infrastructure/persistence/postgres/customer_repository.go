package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

var (
	customerErrors = errorMap{
		notFound:  errors.ErrCustomerNotFound,
		duplicate: errors.ErrCPFAlreadyExists,
	}

	customerColumns = columns{
		repositories.FieldName:      identity,
		repositories.FieldCPF:       identity,
		repositories.FieldPhone:     identity,
		repositories.FieldEmail:     identity,
		repositories.FieldBirthDate: identity,
		repositories.FieldAddress:   identity,
	}
)

// CustomerRepository implementa repositories.CustomerRepository
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository cria um novo CustomerRepository
func NewCustomerRepository(db *gorm.DB) repositories.CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	model := toCustomerModel(customer)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return customerErrors.translate(err)
	}

	customer.ID = model.ID
	customer.CreatedAt = model.CreatedAt
	customer.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*entities.Customer, error) {
	var model CustomerModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		return nil, customerErrors.translate(err)
	}
	return toCustomerEntity(&model), nil
}

func (r *CustomerRepository) FindByCPF(ctx context.Context, cpf string) (*entities.Customer, error) {
	var model CustomerModel
	if err := r.getDB(ctx).Where("cpf = ?", cpf).First(&model).Error; err != nil {
		return nil, customerErrors.translate(err)
	}
	return toCustomerEntity(&model), nil
}

func (r *CustomerRepository) Update(ctx context.Context, id uint, fields repositories.Fields) error {
	return updateByID(ctx, dbFrom(ctx, r.db), &CustomerModel{}, id, fields, customerColumns, customerErrors)
}

func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, dbFrom(ctx, r.db), &CustomerModel{}, id, customerErrors)
}

func (r *CustomerRepository) List(ctx context.Context) ([]*entities.Customer, error) {
	var models []*CustomerModel
	if err := r.getDB(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	customers := make([]*entities.Customer, 0, len(models))
	for _, m := range models {
		customers = append(customers, toCustomerEntity(m))
	}
	return customers, nil
}

func (r *CustomerRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db).WithContext(ctx)
}

func toCustomerModel(c *entities.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        c.ID,
		Name:      c.Name,
		CPF:       c.CPF,
		Phone:     c.Phone,
		Email:     c.Email,
		BirthDate: c.BirthDate,
		Address:   c.Address,
	}
}

func toCustomerEntity(m *CustomerModel) *entities.Customer {
	return &entities.Customer{
		ID:        m.ID,
		Name:      m.Name,
		CPF:       m.CPF,
		Phone:     m.Phone,
		Email:     m.Email,
		BirthDate: m.BirthDate,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
