package services

import (
	"context"
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// ProfileService mantém os perfis de clientes no banco de documentos
type ProfileService struct {
	repo   repositories.CustomerProfileRepository
	logger ports.Logger
}

// NewProfileService cria um novo ProfileService; repo pode ser nil
func NewProfileService(repo repositories.CustomerProfileRepository, logger ports.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger.With("component", "profiles")}
}

// Init cria o perfil com preferências padrão
func (s *ProfileService) Init(ctx context.Context, customerID uint) error {
	if s.repo == nil {
		return errors.ErrDocumentStoreDown
	}
	return s.warn(s.repo.Upsert(ctx, customerID, map[string]any{
		"canal_contato": "email",
		"idioma":        "pt-BR",
	}), customerID)
}

// Touch atualiza a data de última atualização
func (s *ProfileService) Touch(ctx context.Context, customerID uint) error {
	if s.repo == nil {
		return errors.ErrDocumentStoreDown
	}
	return s.warn(s.repo.Touch(ctx, customerID), customerID)
}

// AddContact acrescenta uma interação ao histórico do cliente
func (s *ProfileService) AddContact(ctx context.Context, customerID uint, contactType, description string, metadata map[string]any) error {
	if s.repo == nil {
		return errors.ErrDocumentStoreDown
	}
	return s.warn(s.repo.AppendContact(ctx, customerID, entities.ContactRecord{
		Timestamp:   time.Now().UTC(),
		Type:        contactType,
		Description: description,
		Metadata:    metadata,
	}), customerID)
}

// Get busca o perfil do cliente
func (s *ProfileService) Get(ctx context.Context, customerID uint) (*entities.CustomerProfile, error) {
	if s.repo == nil {
		return nil, errors.ErrDocumentStoreDown
	}
	return s.repo.FindByCustomerID(ctx, customerID)
}

// List lista os perfis, mais recentes primeiro
func (s *ProfileService) List(ctx context.Context) ([]*entities.CustomerProfile, error) {
	if s.repo == nil {
		return nil, errors.ErrDocumentStoreDown
	}
	return s.repo.List(ctx)
}

func (s *ProfileService) warn(err error, customerID uint) error {
	if err != nil {
		s.logger.Warn("customer profile not updated", "customer_id", customerID, "error", err)
	}
	return err
}
