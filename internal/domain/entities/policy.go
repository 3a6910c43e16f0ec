package entities

import "time"

// PolicyStatus representa a situação de uma apólice
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "ativa"
	PolicyStatusCancelled PolicyStatus = "cancelada"
)

// Policy representa uma apólice emitida
type Policy struct {
	ID         uint
	CustomerID uint
	ProductID  uint
	IssueDate  time.Time
	Status     PolicyStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive verifica se a apólice está ativa
func (p *Policy) IsActive() bool {
	return p.Status == PolicyStatusActive
}

// IsCancelled verifica se a apólice foi cancelada
func (p *Policy) IsCancelled() bool {
	return p.Status == PolicyStatusCancelled
}
