package entities

import (
	"strings"
	"time"
)

// ClaimStatus representa a situação de um sinistro
type ClaimStatus string

const (
	ClaimStatusOpen     ClaimStatus = "aberto"
	ClaimStatusInReview ClaimStatus = "em_analise"
	ClaimStatusApproved ClaimStatus = "aprovado"
	ClaimStatusPaid     ClaimStatus = "pago"
)

// ClaimStatuses lista os status na ordem apresentada nos menus
var ClaimStatuses = []ClaimStatus{
	ClaimStatusOpen,
	ClaimStatusInReview,
	ClaimStatusApproved,
	ClaimStatusPaid,
}

// ParseClaimStatus aceita o código, variações com espaço/acento e a posição no menu
func ParseClaimStatus(s string) (ClaimStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, " ", "_")
	switch v {
	case "1", "aberto", "open":
		return ClaimStatusOpen, true
	case "2", "em_analise", "em_análise", "in_review":
		return ClaimStatusInReview, true
	case "3", "aprovado", "approved":
		return ClaimStatusApproved, true
	case "4", "pago", "paid", "fechado":
		return ClaimStatusPaid, true
	}
	return "", false
}

// Claim representa um sinistro registrado sobre uma apólice
type Claim struct {
	ID             uint
	PolicyID       uint
	OccurrenceDate time.Time
	Description    string
	Status         ClaimStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
