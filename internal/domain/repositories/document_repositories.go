package repositories

import (
	"context"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
)

// AuditRepository persiste o log de auditoria
type AuditRepository interface {
	Insert(ctx context.Context, entry *entities.AuditEntry) (string, error)
	Find(ctx context.Context, filter entities.AuditFilter) ([]*entities.AuditEntry, error)
	Stats(ctx context.Context) (*entities.AuditStats, error)
}

// AuditJournal é o destino de contingência do log de auditoria
type AuditJournal interface {
	Write(entry *entities.AuditEntry) error
}

// ClaimDocumentRepository persiste documentos de sinistros
type ClaimDocumentRepository interface {
	Insert(ctx context.Context, doc *entities.ClaimDocument) (string, error)
	ListByClaim(ctx context.Context, claimID uint) ([]*entities.ClaimDocument, error)
	ListByClaimAndType(ctx context.Context, claimID uint, docType string) ([]*entities.ClaimDocument, error)
}

// CustomerProfileRepository persiste perfis de clientes
type CustomerProfileRepository interface {
	Upsert(ctx context.Context, customerID uint, preferences map[string]any) error
	Touch(ctx context.Context, customerID uint) error
	AppendContact(ctx context.Context, customerID uint, contact entities.ContactRecord) error
	FindByCustomerID(ctx context.Context, customerID uint) (*entities.CustomerProfile, error)
	List(ctx context.Context) ([]*entities.CustomerProfile, error)
}

// ReportMetadataRepository persiste metadados de relatórios exportados
type ReportMetadataRepository interface {
	Insert(ctx context.Context, report *entities.ExportedReport) (string, error)
	FindByType(ctx context.Context, reportType string) ([]*entities.ExportedReport, error)
	FindByUser(ctx context.Context, username string) ([]*entities.ExportedReport, error)
}
