package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
	"github.com/rafabene/seguros-backoffice/internal/domain/valueobjects"
)

// CustomerService contém a lógica de negócio para clientes
type CustomerService struct {
	customerRepo repositories.CustomerRepository
	audit        *AuditService
	profiles     *ProfileService
	logger       ports.Logger
	now          func() time.Time
}

// NewCustomerService cria um novo CustomerService
func NewCustomerService(
	customerRepo repositories.CustomerRepository,
	audit *AuditService,
	profiles *ProfileService,
	logger ports.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		audit:        audit,
		profiles:     profiles,
		logger:       logger,
		now:          time.Now,
	}
}

// CustomerInput representa os dados para cadastrar um cliente
type CustomerInput struct {
	Name      string     `json:"nome" validate:"required,notblank,max=100"`
	CPF       string     `json:"cpf" validate:"required,cpf"`
	Phone     string     `json:"telefone" validate:"max=20"`
	Email     string     `json:"email" validate:"omitempty,email"`
	BirthDate *time.Time `json:"data_nascimento"`
	Address   string     `json:"endereco"`
}

// Create cadastra um novo cliente
func (s *CustomerService) Create(ctx context.Context, actor Actor, input CustomerInput) (*entities.Customer, error) {
	if err := actor.require(entities.PermissionCustomerWrite); err != nil {
		return nil, err
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := s.checkBirthDate(input.BirthDate); err != nil {
		return nil, err
	}

	cpf, _ := valueobjects.NewCPF(input.CPF)
	customer := &entities.Customer{
		Name:      input.Name,
		CPF:       cpf.String(),
		Phone:     input.Phone,
		Email:     input.Email,
		BirthDate: dateOnly(input.BirthDate),
		Address:   input.Address,
	}
	customer.Normalize()

	if err := s.ensureUniqueCPF(ctx, customer.CPF, 0); err != nil {
		return nil, err
	}

	s.logger.Info("creating customer", "cpf", cpf.Formatted(), "actor", actor.Username)
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationCreate, entities.EntityCustomer, 0, err,
			map[string]any{"cpf": customer.CPF})
		return nil, err
	}

	s.audit.Success(ctx, actor, entities.OperationCreate, entities.EntityCustomer, customer.ID,
		map[string]any{"nome": customer.Name, "cpf": customer.CPF})
	_ = s.profiles.Init(ctx, customer.ID)

	return customer, nil
}

// Get busca um cliente por ID
func (s *CustomerService) Get(ctx context.Context, actor Actor, id uint) (*entities.Customer, error) {
	if err := actor.require(entities.PermissionCustomerRead); err != nil {
		return nil, err
	}
	return s.customerRepo.FindByID(ctx, id)
}

// FindByCPF busca um cliente pelo CPF, aceito com ou sem pontuação
func (s *CustomerService) FindByCPF(ctx context.Context, actor Actor, raw string) (*entities.Customer, error) {
	if err := actor.require(entities.PermissionCustomerRead); err != nil {
		return nil, err
	}
	cpf, err := valueobjects.NewCPF(raw)
	if err != nil {
		return nil, err
	}
	return s.customerRepo.FindByCPF(ctx, cpf.String())
}

// List lista todos os clientes
func (s *CustomerService) List(ctx context.Context, actor Actor) ([]*entities.Customer, error) {
	if err := actor.require(entities.PermissionCustomerRead); err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor, entities.OperationList, entities.EntityCustomer, nil, entities.AuditStatusSuccess,
		map[string]any{"total": len(customers)})
	return customers, nil
}

// Update altera apenas os campos informados e devolve o cliente atualizado
func (s *CustomerService) Update(ctx context.Context, actor Actor, id uint, fields repositories.Fields) (*entities.Customer, error) {
	if err := actor.require(entities.PermissionCustomerWrite); err != nil {
		return nil, err
	}

	normalized, err := s.normalizeFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, id, normalized); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationUpdate, entities.EntityCustomer, id, err, nil)
		return nil, err
	}

	s.audit.Success(ctx, actor, entities.OperationUpdate, entities.EntityCustomer, id,
		map[string]any{"campos": fieldNames(normalized)})
	_ = s.profiles.Touch(ctx, id)

	return s.customerRepo.FindByID(ctx, id)
}

// Delete remove o cliente e, em cascata, seus seguros, apólices e sinistros
func (s *CustomerService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := actor.require(entities.PermissionCustomerDelete); err != nil {
		return err
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	snapshot := map[string]any{
		"nome":     customer.Name,
		"cpf":      customer.CPF,
		"email":    customer.Email,
		"telefone": customer.Phone,
	}

	if err := s.customerRepo.Delete(ctx, id); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationDelete, entities.EntityCustomer, id, err, snapshot)
		return err
	}

	s.logger.Warn("customer deleted", "customer_id", id, "actor", actor.Username)
	s.audit.Success(ctx, actor, entities.OperationDelete, entities.EntityCustomer, id,
		map[string]any{"cliente_removido": snapshot})
	return nil
}

func (s *CustomerService) normalizeFields(ctx context.Context, id uint, fields repositories.Fields) (repositories.Fields, error) {
	if len(fields) == 0 {
		return nil, errors.ErrNothingToUpdate
	}

	out := make(repositories.Fields, len(fields))
	for key, value := range fields {
		switch key {
		case repositories.FieldName:
			name := entities.TitleCase(asString(value))
			if name == "" {
				return nil, domainValidation(key, "required")
			}
			out[key] = name
		case repositories.FieldCPF:
			cpf, err := valueobjects.NewCPF(asString(value))
			if err != nil {
				return nil, err
			}
			if err := s.ensureUniqueCPF(ctx, cpf.String(), id); err != nil {
				return nil, err
			}
			out[key] = cpf.String()
		case repositories.FieldEmail:
			email := strings.ToLower(strings.TrimSpace(asString(value)))
			if email != "" {
				if _, err := valueobjects.NewEmail(email); err != nil {
					return nil, err
				}
			}
			out[key] = email
		case repositories.FieldPhone:
			out[key] = strings.TrimSpace(asString(value))
		case repositories.FieldAddress:
			out[key] = entities.TitleCase(asString(value))
		case repositories.FieldBirthDate:
			date, err := asDate(value)
			if err != nil {
				return nil, err
			}
			if err := s.checkBirthDate(date); err != nil {
				return nil, err
			}
			out[key] = dateOnly(date)
		default:
			return nil, fmt.Errorf("%w: %s", errors.ErrUnknownField, key)
		}
	}
	return out, nil
}

func (s *CustomerService) ensureUniqueCPF(ctx context.Context, cpf string, selfID uint) error {
	existing, err := s.customerRepo.FindByCPF(ctx, cpf)
	switch {
	case err == nil && existing.ID != selfID:
		return errors.ErrCPFAlreadyExists
	case err == nil, stderrors.Is(err, errors.ErrCustomerNotFound):
		return nil
	default:
		return err
	}
}

func (s *CustomerService) checkBirthDate(date *time.Time) error {
	if date != nil && afterToday(*date, s.now()) {
		return errors.ErrFutureDate
	}
	return nil
}

func domainValidation(field, tag string) error {
	return errors.ValidationErrors{{Field: field, Tag: tag}}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	case fmt.Stringer:
		return s.String()
	}
	return ""
}

func asDate(v any) (*time.Time, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &d, nil
	case *time.Time:
		return d, nil
	case string:
		parsed, err := ParseDate(d)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	}
	return nil, errors.ErrInvalidDate
}

// dateOnly descarta o horário, mantendo a data em UTC
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func fieldNames(fields repositories.Fields) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
