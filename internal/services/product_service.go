package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
	"github.com/rafabene/seguros-backoffice/internal/domain/valueobjects"
)

// Faixa aceita para o ano do veículo
const minVehicleYear = 1900

// ProductService contém a lógica de negócio para seguros
type ProductService struct {
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	audit        *AuditService
	logger       ports.Logger
	now          func() time.Time
}

// NewProductService cria um novo ProductService
func NewProductService(
	productRepo repositories.ProductRepository,
	customerRepo repositories.CustomerRepository,
	audit *AuditService,
	logger ports.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		audit:        audit,
		logger:       logger,
		now:          time.Now,
	}
}

// ProductInput representa os dados para contratar um seguro.
// Apenas os campos do tipo escolhido são considerados.
type ProductInput struct {
	CustomerID  uint   `json:"cliente_id" validate:"required"`
	Type        string `json:"tipo" validate:"required"`
	Description string `json:"descricao"`

	Model string `json:"modelo"`
	Year  int    `json:"ano"`
	Plate string `json:"placa"`

	Address       string  `json:"endereco"`
	PropertyValue float64 `json:"valor"`

	InsuredValue  float64  `json:"valor_segurado"`
	Beneficiaries []string `json:"beneficiarios"`

	// GuardianPresent confirma a presença do responsável legal de um menor
	GuardianPresent bool `json:"responsavel_presente"`
}

// CheckEligibility aplica as restrições de idade do cliente para o tipo de seguro
func (s *ProductService) CheckEligibility(customer *entities.Customer, productType entities.ProductType, guardianPresent bool) error {
	if customer.BirthDate == nil {
		return errors.ErrMissingBirthDate
	}
	if !customer.IsMinor(s.now()) {
		return nil
	}

	switch productType {
	case entities.ProductTypeAuto:
		return errors.ErrUnderageAuto
	case entities.ProductTypeLife:
		if !guardianPresent {
			return errors.ErrGuardianRequired
		}
	}
	return nil
}

// Create contrata um seguro para o cliente
func (s *ProductService) Create(ctx context.Context, actor Actor, input ProductInput) (*entities.Product, error) {
	if err := actor.require(entities.PermissionProductWrite); err != nil {
		return nil, err
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	productType, ok := entities.ParseProductType(input.Type)
	if !ok {
		return nil, errors.ErrInvalidProductType
	}

	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := s.CheckEligibility(customer, productType, input.GuardianPresent); err != nil {
		s.audit.Log(ctx, actor, entities.OperationCreate, entities.EntityProduct, nil, entities.AuditStatusWarning,
			map[string]any{"cliente_id": customer.ID, "tipo": string(productType), "motivo": err.Error()})
		return nil, err
	}

	product := &entities.Product{
		Type:       productType,
		CustomerID: customer.ID,
	}
	if err := s.fillDetails(product, input); err != nil {
		return nil, err
	}

	product.Description = strings.TrimSpace(input.Description)
	if product.Description == "" {
		product.Description = product.DefaultDescription()
	}

	s.logger.Info("creating product", "customer_id", customer.ID, "type", productType)
	if err := s.productRepo.Create(ctx, product); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationCreate, entities.EntityProduct, 0, err,
			map[string]any{"cliente_id": customer.ID, "tipo": string(productType)})
		return nil, err
	}

	s.audit.Success(ctx, actor, entities.OperationCreate, entities.EntityProduct, product.ID, map[string]any{
		"cliente_id":    customer.ID,
		"tipo":          string(productType),
		"valor":         product.Value,
		"premio_mensal": product.MonthlyPremium(),
	})
	return product, nil
}

func (s *ProductService) fillDetails(product *entities.Product, input ProductInput) error {
	switch product.Type {
	case entities.ProductTypeAuto:
		model := entities.TitleCase(input.Model)
		if model == "" {
			return domainValidation("modelo", "required")
		}
		if input.Year < minVehicleYear || input.Year > s.now().Year()+1 {
			return domainValidation("ano", "range")
		}
		plate, err := valueobjects.NewPlate(input.Plate)
		if err != nil {
			return err
		}
		product.Details = entities.ProductDetails{Model: model, Year: input.Year, Plate: plate.String()}
		product.Value = 0

	case entities.ProductTypeResidential:
		address := entities.TitleCase(input.Address)
		if address == "" {
			return domainValidation("endereco", "required")
		}
		value, err := positiveValue(input.PropertyValue)
		if err != nil {
			return err
		}
		product.Details = entities.ProductDetails{Address: address, PropertyValue: value}
		product.Value = value

	case entities.ProductTypeLife:
		value, err := positiveValue(input.InsuredValue)
		if err != nil {
			return err
		}
		beneficiaries := make([]string, 0, len(input.Beneficiaries))
		for _, b := range input.Beneficiaries {
			if name := entities.TitleCase(b); name != "" {
				beneficiaries = append(beneficiaries, name)
			}
		}
		if len(beneficiaries) == 0 {
			return domainValidation("beneficiarios", "required")
		}
		product.Details = entities.ProductDetails{InsuredValue: value, Beneficiaries: beneficiaries}
		product.Value = value
	}
	return nil
}

// Get busca um seguro por ID
func (s *ProductService) Get(ctx context.Context, id uint) (*entities.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// List lista todos os seguros
func (s *ProductService) List(ctx context.Context) ([]*entities.Product, error) {
	return s.productRepo.List(ctx)
}

// ListByCustomer lista os seguros de um cliente
func (s *ProductService) ListByCustomer(ctx context.Context, customerID uint) ([]*entities.Product, error) {
	return s.productRepo.ListByCustomer(ctx, customerID)
}

// Update altera descrição, valor ou detalhes de um seguro.
// Detalhes passam pelas mesmas regras da contratação e um novo valor
// é refletido no detalhe correspondente ao tipo.
func (s *ProductService) Update(ctx context.Context, actor Actor, id uint, fields repositories.Fields) (*entities.Product, error) {
	if err := actor.require(entities.PermissionProductWrite); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.ErrNothingToUpdate
	}
	for key := range fields {
		switch key {
		case repositories.FieldDescription, repositories.FieldValue, repositories.FieldDetails:
		default:
			return nil, fmt.Errorf("%w: %s", errors.ErrUnknownField, key)
		}
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		s.audit.Failure(ctx, actor, entities.OperationUpdate, entities.EntityProduct, id, err, nil)
		return nil, err
	}
	normalized, err := s.applyUpdate(product, fields)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, id, normalized); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationUpdate, entities.EntityProduct, id, err, nil)
		return nil, err
	}
	s.audit.Success(ctx, actor, entities.OperationUpdate, entities.EntityProduct, id,
		map[string]any{"campos": fieldNames(fields)})
	return s.productRepo.FindByID(ctx, id)
}

// applyUpdate valida os campos sobre uma cópia do seguro e devolve o que deve ser gravado
func (s *ProductService) applyUpdate(current *entities.Product, fields repositories.Fields) (repositories.Fields, error) {
	next := *current
	normalized := repositories.Fields{}

	if raw, ok := fields[repositories.FieldDetails]; ok {
		details, ok := raw.(entities.ProductDetails)
		if !ok {
			return nil, errors.ErrInvalidValue
		}
		input := detailsInput(details)
		if v, ok := fields[repositories.FieldValue].(float64); ok {
			input.PropertyValue, input.InsuredValue = v, v
		}
		if err := s.fillDetails(&next, input); err != nil {
			return nil, err
		}
		normalized[repositories.FieldDetails] = next.Details
		normalized[repositories.FieldValue] = next.Value
	}

	if raw, ok := fields[repositories.FieldValue]; ok {
		v, ok := raw.(float64)
		if !ok {
			return nil, errors.ErrInvalidValue
		}
		value, err := positiveValue(v)
		if err != nil {
			return nil, err
		}
		switch next.Type {
		case entities.ProductTypeResidential:
			next.Details.PropertyValue = value
		case entities.ProductTypeLife:
			next.Details.InsuredValue = value
		default:
			return nil, domainValidation("valor", "not_applicable")
		}
		next.Value = value
		normalized[repositories.FieldDetails] = next.Details
		normalized[repositories.FieldValue] = value
	}

	if raw, ok := fields[repositories.FieldDescription]; ok {
		description := strings.TrimSpace(asString(raw))
		if description == "" {
			description = next.DefaultDescription()
		}
		normalized[repositories.FieldDescription] = description
	}
	return normalized, nil
}

// detailsInput converte detalhes gravados de volta para a entrada validada por fillDetails
func detailsInput(d entities.ProductDetails) ProductInput {
	return ProductInput{
		Model:         d.Model,
		Year:          d.Year,
		Plate:         d.Plate,
		Address:       d.Address,
		PropertyValue: d.PropertyValue,
		InsuredValue:  d.InsuredValue,
		Beneficiaries: d.Beneficiaries,
	}
}

// Delete remove um seguro e, em cascata, suas apólices
func (s *ProductService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := actor.require(entities.PermissionProductWrite); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationDelete, entities.EntityProduct, id, err, nil)
		return err
	}
	s.audit.Success(ctx, actor, entities.OperationDelete, entities.EntityProduct, id, nil)
	return nil
}

func positiveValue(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, errors.ErrInvalidValue
	}
	return entities.RoundCents(v), nil
}
