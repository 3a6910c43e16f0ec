package entities

import "time"

// AuditStatus é o resultado registrado em uma entrada de auditoria
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "sucesso"
	AuditStatusError   AuditStatus = "erro"
	AuditStatusWarning AuditStatus = "aviso"
)

// Operações auditadas
const (
	OperationCreate       = "criar"
	OperationRead         = "consultar"
	OperationList         = "listar"
	OperationUpdate       = "atualizar"
	OperationDelete       = "deletar"
	OperationIssue        = "emitir"
	OperationCancel       = "cancelar"
	OperationRegister     = "registrar"
	OperationUpdateStatus = "atualizar_status"
	OperationExport       = "exportar"
	OperationImport       = "importar"
	OperationLogin        = "login"
	OperationSetup        = "setup_inicial"
)

// Entidades auditadas
const (
	EntityUser     = "usuario"
	EntityCustomer = "cliente"
	EntityProduct  = "seguro"
	EntityPolicy   = "apolice"
	EntityClaim    = "sinistro"
	EntityReport   = "relatorio"
	EntitySystem   = "sistema"
)

// AuditEntry é um registro do log de auditoria
type AuditEntry struct {
	ID        string
	Timestamp time.Time
	Username  string
	SessionID string
	Operation string
	Entity    string
	EntityID  *uint
	Status    AuditStatus
	Details   map[string]any
}

// AuditFilter restringe consultas ao log de auditoria
type AuditFilter struct {
	Username  string
	Operation string
	Entity    string
	Limit     int
}

// CountEntry é um agrupamento com contagem
type CountEntry struct {
	Key   string
	Count int64
}

// AuditStats resume o log de auditoria
type AuditStats struct {
	Total       int64
	ByEntity    []CountEntry
	ByUser      []CountEntry
	ByOperation []CountEntry
}

// Tipos de documento de sinistro
const (
	DocumentTypeInitialNote      = "observacao_inicial"
	DocumentTypeStatusUpdateNote = "observacao_status"
	DocumentTypeAttachment       = "anexo"
)

// ClaimDocument é um documento associado a um sinistro
type ClaimDocument struct {
	ID           string
	ClaimID      uint
	PolicyID     uint
	DocumentType string
	FilePath     string
	Description  string
	Content      string
	Metadata     map[string]any
	Timestamp    time.Time
}

// Tipos de contato registrados no perfil do cliente
const (
	ContactPolicyIssued    = "apolice_emitida"
	ContactPolicyCancelled = "apolice_cancelada"
	ContactClaimRegistered = "sinistro_registrado"
)

// ContactRecord é uma interação registrada no histórico do cliente
type ContactRecord struct {
	Timestamp   time.Time
	Type        string
	Description string
	Metadata    map[string]any
}

// CustomerProfile guarda preferências e histórico de contato do cliente
type CustomerProfile struct {
	ID             string
	CustomerID     uint
	Preferences    map[string]any
	ContactHistory []ContactRecord
	LastUpdated    time.Time
}

// LastContacts retorna os n contatos mais recentes, do mais novo ao mais antigo
func (p *CustomerProfile) LastContacts(n int) []ContactRecord {
	history := p.ContactHistory
	if n > len(history) {
		n = len(history)
	}
	out := make([]ContactRecord, 0, n)
	for i := len(history) - 1; i >= len(history)-n; i-- {
		out = append(out, history[i])
	}
	return out
}

// ExportedReport registra a geração de um relatório exportado
type ExportedReport struct {
	ID           string
	Timestamp    time.Time
	Username     string
	ReportType   string
	Format       string
	FilePath     string
	TotalRecords int
	Filters      map[string]any
}
