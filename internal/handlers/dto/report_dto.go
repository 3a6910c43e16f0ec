package dto

import (
	"time"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

// TokenRequest representa a requisição de um token de acesso
type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse representa o token emitido
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ClaimResponse representa um sinistro nos relatórios
type ClaimResponse struct {
	ID             uint   `json:"id"`
	PolicyID       uint   `json:"apolice_id"`
	OccurrenceDate string `json:"data_ocorrencia"`
	Description    string `json:"descricao"`
	Status         string `json:"status"`
}

// ClaimsReportResponse representa o relatório de sinistros por período
type ClaimsReportResponse struct {
	From   string                 `json:"de,omitempty"`
	To     string                 `json:"ate,omitempty"`
	Claims []ClaimResponse        `json:"sinistros"`
	Counts []services.StatusCount `json:"resumo"`
}

// ToClaimsReportResponse converte o relatório de sinistros
func ToClaimsReportResponse(report *services.ClaimsPeriodReport) ClaimsReportResponse {
	resp := ClaimsReportResponse{
		Claims: make([]ClaimResponse, len(report.Claims)),
		Counts: report.Counts,
	}
	if report.From != nil {
		resp.From = services.FormatDate(*report.From)
	}
	if report.To != nil {
		resp.To = services.FormatDate(*report.To)
	}
	for i, c := range report.Claims {
		resp.Claims[i] = ClaimResponse{
			ID:             c.ID,
			PolicyID:       c.PolicyID,
			OccurrenceDate: services.FormatDate(c.OccurrenceDate),
			Description:    c.Description,
			Status:         string(c.Status),
		}
	}
	return resp
}

// AuditEntryResponse representa uma entrada de auditoria
type AuditEntryResponse struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Username  string         `json:"usuario"`
	SessionID string         `json:"sessao,omitempty"`
	Operation string         `json:"operacao"`
	Entity    string         `json:"entidade"`
	EntityID  *uint          `json:"entidade_id,omitempty"`
	Status    string         `json:"status"`
	Details   map[string]any `json:"detalhes,omitempty"`
}

// ToAuditEntryResponses converte uma lista de entradas de auditoria
func ToAuditEntryResponses(entries []*entities.AuditEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = AuditEntryResponse{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Username:  e.Username,
			SessionID: e.SessionID,
			Operation: e.Operation,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			Status:    string(e.Status),
			Details:   e.Details,
		}
	}
	return responses
}

// CountResponse é um agrupamento com contagem
type CountResponse struct {
	Key   string `json:"chave"`
	Count int64  `json:"quantidade"`
}

// AuditStatsResponse resume o log de auditoria
type AuditStatsResponse struct {
	Total       int64           `json:"total"`
	ByEntity    []CountResponse `json:"por_entidade"`
	ByUser      []CountResponse `json:"por_usuario"`
	ByOperation []CountResponse `json:"por_operacao"`
}

// ToAuditStatsResponse converte as estatísticas de auditoria
func ToAuditStatsResponse(stats *entities.AuditStats) AuditStatsResponse {
	return AuditStatsResponse{
		Total:       stats.Total,
		ByEntity:    toCounts(stats.ByEntity),
		ByUser:      toCounts(stats.ByUser),
		ByOperation: toCounts(stats.ByOperation),
	}
}

func toCounts(in []entities.CountEntry) []CountResponse {
	out := make([]CountResponse, len(in))
	for i, e := range in {
		out[i] = CountResponse{Key: e.Key, Count: e.Count}
	}
	return out
}
