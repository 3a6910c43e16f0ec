package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// UserModel é o model GORM para usuários
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(20);not null;default:comum"`
	CreatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// CustomerModel é o model GORM para clientes
type CustomerModel struct {
	ID        uint       `gorm:"primaryKey"`
	Name      string     `gorm:"type:varchar(100);not null;index"`
	CPF       string     `gorm:"column:cpf;type:varchar(14);uniqueIndex;not null"`
	Phone     string     `gorm:"type:varchar(20)"`
	Email     string     `gorm:"type:varchar(100)"`
	BirthDate *time.Time `gorm:"type:date"`
	Address   string     `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CustomerModel) TableName() string {
	return "customers"
}

// ProductModel é o model GORM para seguros
type ProductModel struct {
	ID          uint           `gorm:"primaryKey"`
	Type        string         `gorm:"type:varchar(50);not null;index"`
	Description string         `gorm:"type:text"`
	Value       float64        `gorm:"type:decimal(12,2)"`
	Details     datatypes.JSON
	CustomerID  uint           `gorm:"not null;index"`
	Customer    *CustomerModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

// PolicyModel é o model GORM para apólices
type PolicyModel struct {
	ID         uint           `gorm:"primaryKey"`
	CustomerID uint           `gorm:"not null;index"`
	Customer   *CustomerModel `gorm:"constraint:OnDelete:CASCADE"`
	ProductID  uint           `gorm:"not null;index"`
	Product    *ProductModel  `gorm:"constraint:OnDelete:CASCADE"`
	IssueDate  time.Time      `gorm:"type:date;not null"`
	Status     string         `gorm:"type:varchar(20);not null;default:ativa;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (PolicyModel) TableName() string {
	return "policies"
}

// ClaimModel é o model GORM para sinistros
type ClaimModel struct {
	ID             uint         `gorm:"primaryKey"`
	PolicyID       uint         `gorm:"not null;index"`
	Policy         *PolicyModel `gorm:"constraint:OnDelete:CASCADE"`
	OccurrenceDate time.Time    `gorm:"type:date;not null;index"`
	Description    string       `gorm:"type:text"`
	Status         string       `gorm:"type:varchar(20);not null;default:aberto;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ClaimModel) TableName() string {
	return "claims"
}

// Models lista os models na ordem de criação das tabelas
func Models() []any {
	return []any{
		&UserModel{},
		&CustomerModel{},
		&ProductModel{},
		&PolicyModel{},
		&ClaimModel{},
	}
}
