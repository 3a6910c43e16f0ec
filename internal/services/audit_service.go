package services

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/ports"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// journalReader é implementado por journals que também permitem leitura
type journalReader interface {
	Recent(limit int) ([]*entities.AuditEntry, error)
}

// AuditService grava e consulta o log de auditoria.
// O banco de documentos é o destino principal; o journal em arquivo recebe as
// entradas quando o banco não está configurado ou a escrita falha.
type AuditService struct {
	store   repositories.AuditRepository
	journal repositories.AuditJournal
	logger  ports.Logger
	now     func() time.Time
}

// NewAuditService cria um novo AuditService; store pode ser nil
func NewAuditService(store repositories.AuditRepository, journal repositories.AuditJournal, logger ports.Logger) *AuditService {
	return &AuditService{
		store:   store,
		journal: journal,
		logger:  logger.With("component", "audit"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Record grava a entrada e devolve o id atribuído
func (s *AuditService) Record(ctx context.Context, entry *entities.AuditEntry) (string, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	if entry.Status == "" {
		entry.Status = entities.AuditStatusSuccess
	}

	if s.store != nil {
		id, err := s.store.Insert(ctx, entry)
		if err == nil {
			return id, nil
		}
		s.logger.Warn("audit store unavailable, using journal",
			"operation", entry.Operation,
			"entity", entry.Entity,
			"error", err,
		)
	}

	if s.journal == nil {
		return "", errors.ErrDocumentStoreDown
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := s.journal.Write(entry); err != nil {
		s.logger.Error("failed to write audit journal", "error", err)
		return "", err
	}
	return entry.ID, nil
}

// Log monta e grava uma entrada para uma operação do ator.
// Falhas são registradas no logger e não interrompem a operação auditada.
func (s *AuditService) Log(ctx context.Context, actor Actor, operation, entity string, entityID *uint, status entities.AuditStatus, details map[string]any) {
	entry := &entities.AuditEntry{
		Username:  actor.Username,
		SessionID: actor.SessionID,
		Operation: operation,
		Entity:    entity,
		EntityID:  entityID,
		Status:    status,
		Details:   details,
	}
	if _, err := s.Record(ctx, entry); err != nil {
		s.logger.Error("audit entry lost", "operation", operation, "entity", entity, "error", err)
	}
}

// Success registra uma operação bem-sucedida
func (s *AuditService) Success(ctx context.Context, actor Actor, operation, entity string, entityID uint, details map[string]any) {
	s.Log(ctx, actor, operation, entity, idPtr(entityID), entities.AuditStatusSuccess, details)
}

// Failure registra uma operação que falhou, anexando a mensagem do erro
func (s *AuditService) Failure(ctx context.Context, actor Actor, operation, entity string, entityID uint, cause error, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	details["erro"] = cause.Error()
	s.Log(ctx, actor, operation, entity, idPtr(entityID), entities.AuditStatusError, details)
}

// Query consulta o log. Sem banco de documentos, lê o journal e filtra em memória.
func (s *AuditService) Query(ctx context.Context, filter entities.AuditFilter) ([]*entities.AuditEntry, error) {
	if s.store != nil {
		return s.store.Find(ctx, filter)
	}

	entries, err := s.journalEntries()
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	out := make([]*entities.AuditEntry, 0)
	for _, e := range entries {
		if filter.Username != "" && e.Username != filter.Username {
			continue
		}
		if filter.Operation != "" && e.Operation != filter.Operation {
			continue
		}
		if filter.Entity != "" && e.Entity != filter.Entity {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Stats resume o log por entidade, usuário e operação
func (s *AuditService) Stats(ctx context.Context) (*entities.AuditStats, error) {
	if s.store != nil {
		return s.store.Stats(ctx)
	}

	entries, err := s.journalEntries()
	if err != nil {
		return nil, err
	}
	return computeStats(entries), nil
}

// UsingFallback indica se as entradas estão indo para o journal
func (s *AuditService) UsingFallback() bool {
	return s.store == nil
}

func (s *AuditService) journalEntries() ([]*entities.AuditEntry, error) {
	reader, ok := s.journal.(journalReader)
	if !ok {
		return nil, errors.ErrDocumentStoreDown
	}
	entries, err := reader.Recent(0)
	if err != nil {
		return nil, stderrors.Join(errors.ErrDocumentStoreDown, err)
	}
	return entries, nil
}

func computeStats(entries []*entities.AuditEntry) *entities.AuditStats {
	byEntity := map[string]int64{}
	byUser := map[string]int64{}
	byOperation := map[string]int64{}
	for _, e := range entries {
		byEntity[e.Entity]++
		byUser[e.Username]++
		byOperation[e.Operation]++
	}
	return &entities.AuditStats{
		Total:       int64(len(entries)),
		ByEntity:    sortedCounts(byEntity),
		ByUser:      sortedCounts(byUser),
		ByOperation: sortedCounts(byOperation),
	}
}

// sortedCounts ordena por contagem decrescente e, no empate, pela chave
func sortedCounts(m map[string]int64) []entities.CountEntry {
	out := make([]entities.CountEntry, 0, len(m))
	for k, v := range m {
		out = append(out, entities.CountEntry{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func idPtr(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
