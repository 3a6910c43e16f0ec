package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
)

type auditDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`
	Username  string             `bson:"usuario"`
	SessionID string             `bson:"sessao,omitempty"`
	Operation string             `bson:"operacao"`
	Entity    string             `bson:"entidade"`
	EntityID  *int64             `bson:"entidade_id,omitempty"`
	Status    string             `bson:"status"`
	Details   map[string]any     `bson:"detalhes,omitempty"`
}

func toAuditDocument(e *entities.AuditEntry) *auditDocument {
	doc := &auditDocument{
		Timestamp: e.Timestamp,
		Username:  e.Username,
		SessionID: e.SessionID,
		Operation: e.Operation,
		Entity:    e.Entity,
		Status:    string(e.Status),
		Details:   e.Details,
	}
	if e.EntityID != nil {
		id := int64(*e.EntityID)
		doc.EntityID = &id
	}
	return doc
}

func (d *auditDocument) toEntity() *entities.AuditEntry {
	e := &entities.AuditEntry{
		ID:        d.ID.Hex(),
		Timestamp: d.Timestamp,
		Username:  d.Username,
		SessionID: d.SessionID,
		Operation: d.Operation,
		Entity:    d.Entity,
		Status:    entities.AuditStatus(d.Status),
		Details:   d.Details,
	}
	if d.EntityID != nil {
		id := uint(*d.EntityID)
		e.EntityID = &id
	}
	return e
}

type claimDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ClaimID      int64              `bson:"sinistro_id"`
	PolicyID     int64              `bson:"apolice_id"`
	DocumentType string             `bson:"tipo_documento"`
	FilePath     string             `bson:"caminho_arquivo,omitempty"`
	Description  string             `bson:"descricao"`
	Content      string             `bson:"conteudo,omitempty"`
	Metadata     map[string]any     `bson:"metadados,omitempty"`
	Timestamp    time.Time          `bson:"data_upload"`
}

func (d *claimDocument) toEntity() *entities.ClaimDocument {
	return &entities.ClaimDocument{
		ID:           d.ID.Hex(),
		ClaimID:      uint(d.ClaimID),
		PolicyID:     uint(d.PolicyID),
		DocumentType: d.DocumentType,
		FilePath:     d.FilePath,
		Description:  d.Description,
		Content:      d.Content,
		Metadata:     d.Metadata,
		Timestamp:    d.Timestamp,
	}
}

type contactDocument struct {
	Timestamp   time.Time      `bson:"data"`
	Type        string         `bson:"tipo"`
	Description string         `bson:"descricao"`
	Metadata    map[string]any `bson:"metadados,omitempty"`
}

type profileDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID     int64              `bson:"cliente_id"`
	Preferences    map[string]any     `bson:"preferencias"`
	ContactHistory []contactDocument  `bson:"historico_contato"`
	LastUpdated    time.Time          `bson:"ultima_atualizacao"`
}

func (d *profileDocument) toEntity() *entities.CustomerProfile {
	history := make([]entities.ContactRecord, 0, len(d.ContactHistory))
	for _, c := range d.ContactHistory {
		history = append(history, entities.ContactRecord{
			Timestamp:   c.Timestamp,
			Type:        c.Type,
			Description: c.Description,
			Metadata:    c.Metadata,
		})
	}
	return &entities.CustomerProfile{
		ID:             d.ID.Hex(),
		CustomerID:     uint(d.CustomerID),
		Preferences:    d.Preferences,
		ContactHistory: history,
		LastUpdated:    d.LastUpdated,
	}
}

type reportDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp    time.Time          `bson:"timestamp"`
	Username     string             `bson:"usuario"`
	ReportType   string             `bson:"tipo_relatorio"`
	Format       string             `bson:"formato"`
	FilePath     string             `bson:"caminho_arquivo"`
	TotalRecords int                `bson:"total_registros"`
	Filters      map[string]any     `bson:"filtros,omitempty"`
}

func (d *reportDocument) toEntity() *entities.ExportedReport {
	return &entities.ExportedReport{
		ID:           d.ID.Hex(),
		Timestamp:    d.Timestamp,
		Username:     d.Username,
		ReportType:   d.ReportType,
		Format:       d.Format,
		FilePath:     d.FilePath,
		TotalRecords: d.TotalRecords,
		Filters:      d.Filters,
	}
}

// insertedID converte o _id gerado em string hexadecimal
func insertedID(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}
