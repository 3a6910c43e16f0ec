package services

import (
	"context"
	"strings"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// ClaimDocumentService guarda documentos e observações de sinistros
type ClaimDocumentService struct {
	repo   repositories.ClaimDocumentRepository
	logger ports.Logger
}

// NewClaimDocumentService cria um novo ClaimDocumentService; repo pode ser nil
func NewClaimDocumentService(repo repositories.ClaimDocumentRepository, logger ports.Logger) *ClaimDocumentService {
	return &ClaimDocumentService{repo: repo, logger: logger.With("component", "claim_documents")}
}

// Add grava o documento e devolve seu id
func (s *ClaimDocumentService) Add(ctx context.Context, doc *entities.ClaimDocument) (string, error) {
	if s.repo == nil {
		return "", errors.ErrDocumentStoreDown
	}
	if strings.TrimSpace(doc.DocumentType) == "" {
		doc.DocumentType = entities.DocumentTypeAttachment
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		s.logger.Warn("claim document not stored", "claim_id", doc.ClaimID, "error", err)
		return "", err
	}
	return id, nil
}

// List lista os documentos do sinistro, mais recentes primeiro
func (s *ClaimDocumentService) List(ctx context.Context, claimID uint) ([]*entities.ClaimDocument, error) {
	if s.repo == nil {
		return nil, errors.ErrDocumentStoreDown
	}
	return s.repo.ListByClaim(ctx, claimID)
}

// ListByType lista os documentos do sinistro de um tipo
func (s *ClaimDocumentService) ListByType(ctx context.Context, claimID uint, docType string) ([]*entities.ClaimDocument, error) {
	if s.repo == nil {
		return nil, errors.ErrDocumentStoreDown
	}
	return s.repo.ListByClaimAndType(ctx, claimID, docType)
}
