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

// ClaimService contém a lógica de registro e acompanhamento de sinistros
type ClaimService struct {
	claimRepo  repositories.ClaimRepository
	policyRepo repositories.PolicyRepository
	documents  *ClaimDocumentService
	audit      *AuditService
	profiles   *ProfileService
	logger     ports.Logger
	now        func() time.Time
}

// NewClaimService cria um novo ClaimService
func NewClaimService(
	claimRepo repositories.ClaimRepository,
	policyRepo repositories.PolicyRepository,
	documents *ClaimDocumentService,
	audit *AuditService,
	profiles *ProfileService,
	logger ports.Logger,
) *ClaimService {
	return &ClaimService{
		claimRepo:  claimRepo,
		policyRepo: policyRepo,
		documents:  documents,
		audit:      audit,
		profiles:   profiles,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterClaimInput representa os dados para registrar um sinistro
type RegisterClaimInput struct {
	PolicyID       uint      `json:"apolice_id" validate:"required"`
	OccurrenceDate time.Time `json:"data_ocorrencia" validate:"required"`
	Description    string    `json:"descricao" validate:"required,notblank"`
	Notes          string    `json:"observacoes"`
}

// Register registra um sinistro sobre uma apólice ativa
func (s *ClaimService) Register(ctx context.Context, actor Actor, input RegisterClaimInput) (*entities.Claim, error) {
	if err := actor.require(entities.PermissionClaimWrite); err != nil {
		return nil, err
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if afterToday(input.OccurrenceDate, s.now()) {
		return nil, errors.ErrFutureDate
	}

	policy, err := s.policyRepo.FindByID(ctx, input.PolicyID)
	if err != nil {
		return nil, err
	}
	if !policy.IsActive() {
		return nil, errors.ErrPolicyNotActive
	}

	claim := &entities.Claim{
		PolicyID:       policy.ID,
		OccurrenceDate: *dateOnly(&input.OccurrenceDate),
		Description:    strings.TrimSpace(input.Description),
		Status:         entities.ClaimStatusOpen,
	}

	s.logger.Info("registering claim", "policy_id", policy.ID)
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationRegister, entities.EntityClaim, 0, err,
			map[string]any{"apolice_id": policy.ID})
		return nil, err
	}

	s.audit.Success(ctx, actor, entities.OperationRegister, entities.EntityClaim, claim.ID, map[string]any{
		"apolice_id":      policy.ID,
		"data_ocorrencia": FormatDate(claim.OccurrenceDate),
		"descricao":       claim.Description,
	})

	if notes := strings.TrimSpace(input.Notes); notes != "" {
		_, _ = s.documents.Add(ctx, &entities.ClaimDocument{
			ClaimID:      claim.ID,
			PolicyID:     policy.ID,
			DocumentType: entities.DocumentTypeInitialNote,
			Description:  "Observações iniciais",
			Content:      notes,
			Metadata:     map[string]any{"usuario": actor.Username},
		})
	}
	_ = s.profiles.AddContact(ctx, policy.CustomerID, entities.ContactClaimRegistered,
		fmt.Sprintf("Sinistro %d registrado na apólice %d", claim.ID, policy.ID),
		map[string]any{"sinistro_id": claim.ID, "apolice_id": policy.ID})

	return claim, nil
}

// UpdateStatus altera o status de um sinistro, registrando o status anterior
func (s *ClaimService) UpdateStatus(ctx context.Context, actor Actor, id uint, status entities.ClaimStatus, notes string) (*entities.Claim, error) {
	if err := actor.require(entities.PermissionClaimWrite); err != nil {
		return nil, err
	}
	status, ok := entities.ParseClaimStatus(string(status))
	if !ok {
		return nil, errors.ErrInvalidClaimStatus
	}

	claim, err := s.claimRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := claim.Status

	if err := s.claimRepo.Update(ctx, id, repositories.Fields{
		repositories.FieldStatus: string(status),
	}); err != nil {
		s.audit.Failure(ctx, actor, entities.OperationUpdateStatus, entities.EntityClaim, id, err, nil)
		return nil, err
	}

	s.audit.Success(ctx, actor, entities.OperationUpdateStatus, entities.EntityClaim, id, map[string]any{
		"status_anterior": string(previous),
		"status_novo":     string(status),
	})

	if notes = strings.TrimSpace(notes); notes != "" {
		_, _ = s.documents.Add(ctx, &entities.ClaimDocument{
			ClaimID:      id,
			PolicyID:     claim.PolicyID,
			DocumentType: entities.DocumentTypeStatusUpdateNote,
			Description:  fmt.Sprintf("Status alterado de %s para %s", previous, status),
			Content:      notes,
			Metadata: map[string]any{
				"usuario":         actor.Username,
				"status_anterior": string(previous),
				"status_novo":     string(status),
			},
		})
	}

	claim.Status = status
	return claim, nil
}

// AddDocument anexa um documento ao sinistro
func (s *ClaimService) AddDocument(ctx context.Context, actor Actor, claimID uint, doc *entities.ClaimDocument) (string, error) {
	if err := actor.require(entities.PermissionClaimWrite); err != nil {
		return "", err
	}
	claim, err := s.claimRepo.FindByID(ctx, claimID)
	if err != nil {
		return "", err
	}

	doc.ClaimID = claim.ID
	doc.PolicyID = claim.PolicyID
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	doc.Metadata["usuario"] = actor.Username

	return s.documents.Add(ctx, doc)
}

// Documents lista os documentos do sinistro
func (s *ClaimService) Documents(ctx context.Context, claimID uint) ([]*entities.ClaimDocument, error) {
	if _, err := s.claimRepo.FindByID(ctx, claimID); err != nil {
		return nil, err
	}
	return s.documents.List(ctx, claimID)
}

// Get busca um sinistro por ID
func (s *ClaimService) Get(ctx context.Context, id uint) (*entities.Claim, error) {
	return s.claimRepo.FindByID(ctx, id)
}

// List lista todos os sinistros
func (s *ClaimService) List(ctx context.Context) ([]*entities.Claim, error) {
	return s.claimRepo.List(ctx)
}

// ListByPolicy lista os sinistros de uma apólice
func (s *ClaimService) ListByPolicy(ctx context.Context, policyID uint) ([]*entities.Claim, error) {
	return s.claimRepo.ListByPolicy(ctx, policyID)
}
