package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// PolicyService contém a lógica de emissão e cancelamento de apólices
type PolicyService struct {
	policyRepo   repositories.PolicyRepository
	productRepo  repositories.ProductRepository
	customerRepo repositories.CustomerRepository
	audit        *AuditService
	profiles     *ProfileService
	logger       ports.Logger
	now          func() time.Time
}

// NewPolicyService cria um novo PolicyService
func NewPolicyService(
	policyRepo repositories.PolicyRepository,
	productRepo repositories.ProductRepository,
	customerRepo repositories.CustomerRepository,
	audit *AuditService,
	profiles *ProfileService,
	logger ports.Logger,
) *PolicyService {
	return &PolicyService{
		policyRepo:   policyRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		audit:        audit,
		profiles:     profiles,
		logger:       logger,
		now:          time.Now,
	}
}

// IssuePolicyInput representa os dados para emitir uma apólice
type IssuePolicyInput struct {
	CustomerID uint       `json:"cliente_id" validate:"required"`
	ProductID  uint       `json:"seguro_id" validate:"required"`
	IssueDate  *time.Time `json:"data_emissao"`
}

// IssuedPolicy é o resultado da emissão
type IssuedPolicy struct {
	Policy         *entities.Policy
	Customer       *entities.Customer
	Product        *entities.Product
	MonthlyPremium float64
}

// Issue emite uma apólice para um seguro do cliente
func (s *PolicyService) Issue(ctx context.Context, actor Actor, input IssuePolicyInput) (*IssuedPolicy, error) {
	if err := actor.require(entities.PermissionPolicyWrite); err != nil {
		return nil, err
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.CustomerID != customer.ID {
		return nil, errors.ErrProductNotOwned
	}

	issueDate := s.now().UTC()
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}

	policy := &entities.Policy{
		CustomerID: customer.ID,
		ProductID:  product.ID,
		IssueDate:  *dateOnly(&issueDate),
		Status:     entities.PolicyStatusActive,
	}

	s.logger.Info("issuing policy", "customer_id", customer.ID, "product_id", product.ID)
	if err := s.policyRepo.Create(ctx, policy); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationIssue, entities.EntityPolicy, 0, err,
			map[string]any{"cliente_id": customer.ID, "seguro_id": product.ID})
		return nil, err
	}

	premium := product.MonthlyPremium()
	s.audit.Success(ctx, actor, entities.OperationIssue, entities.EntityPolicy, policy.ID, map[string]any{
		"cliente_id":    customer.ID,
		"cliente_nome":  customer.Name,
		"cliente_cpf":   customer.CPF,
		"seguro_id":     product.ID,
		"tipo_seguro":   string(product.Type),
		"premio_mensal": premium,
	})
	_ = s.profiles.AddContact(ctx, customer.ID, entities.ContactPolicyIssued,
		fmt.Sprintf("Apólice %d emitida", policy.ID),
		map[string]any{"apolice_id": policy.ID, "tipo_seguro": string(product.Type)})

	return &IssuedPolicy{
		Policy:         policy,
		Customer:       customer,
		Product:        product,
		MonthlyPremium: premium,
	}, nil
}

// Cancel cancela uma apólice ativa
func (s *PolicyService) Cancel(ctx context.Context, actor Actor, id uint, reason string) error {
	if err := actor.require(entities.PermissionPolicyWrite); err != nil {
		return err
	}

	policy, err := s.policyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if policy.IsCancelled() {
		return errors.ErrPolicyCancelled
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Não informado"
	}

	if err := s.policyRepo.Update(ctx, id, repositories.Fields{
		repositories.FieldStatus: string(entities.PolicyStatusCancelled),
	}); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationCancel, entities.EntityPolicy, id, err, nil)
		return err
	}

	s.logger.Info("policy cancelled", "policy_id", id, "actor", actor.Username)
	s.audit.Success(ctx, actor, entities.OperationCancel, entities.EntityPolicy, id, map[string]any{
		"motivo":            reason,
		"data_cancelamento": s.now().UTC().Format(time.RFC3339),
	})
	_ = s.profiles.AddContact(ctx, policy.CustomerID, entities.ContactPolicyCancelled,
		fmt.Sprintf("Apólice %d cancelada", id),
		map[string]any{"apolice_id": id, "motivo": reason})
	return nil
}

// Get busca uma apólice por ID
func (s *PolicyService) Get(ctx context.Context, id uint) (*entities.Policy, error) {
	return s.policyRepo.FindByID(ctx, id)
}

// List lista todas as apólices
func (s *PolicyService) List(ctx context.Context) ([]*entities.Policy, error) {
	return s.policyRepo.List(ctx)
}

// ListByCustomer lista as apólices de um cliente
func (s *PolicyService) ListByCustomer(ctx context.Context, customerID uint) ([]*entities.Policy, error) {
	return s.policyRepo.ListByCustomer(ctx, customerID)
}
