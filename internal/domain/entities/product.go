package entities

import (
	"math"
	"strings"
	"time"
)

// ProductType identifica o tipo de seguro
type ProductType string

const (
	ProductTypeAuto        ProductType = "auto"
	ProductTypeResidential ProductType = "residencial"
	ProductTypeLife        ProductType = "vida"
)

// Tarifas mensais
const (
	AutoMonthlyPremium    = 200.0
	ResidentialPremiumPct = 0.005
	LifePremiumPct        = 0.01
)

// ProductTypes lista os tipos na ordem apresentada nos menus
var ProductTypes = []ProductType{ProductTypeAuto, ProductTypeResidential, ProductTypeLife}

// ParseProductType aceita o código, o nome em português (com ou sem acento)
// ou a posição no menu ("1", "2", "3").
func ParseProductType(s string) (ProductType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "auto", "automovel", "automóvel":
		return ProductTypeAuto, true
	case "2", "residencial", "residential":
		return ProductTypeResidential, true
	case "3", "vida", "life":
		return ProductTypeLife, true
	}
	return "", false
}

// DisplayName retorna o nome usado em relatórios e exportações
func (t ProductType) DisplayName() string {
	switch t {
	case ProductTypeAuto:
		return "Automóvel"
	case ProductTypeResidential:
		return "Residencial"
	case ProductTypeLife:
		return "Vida"
	}
	return string(t)
}

// ProductDetails guarda os atributos específicos de cada tipo de seguro
type ProductDetails struct {
	// Automóvel
	Model string `json:"modelo,omitempty"`
	Year  int    `json:"ano,omitempty"`
	Plate string `json:"placa,omitempty"`

	// Residencial
	Address       string  `json:"endereco,omitempty"`
	PropertyValue float64 `json:"valor,omitempty"`

	// Vida
	InsuredValue  float64  `json:"valor_segurado,omitempty"`
	Beneficiaries []string `json:"beneficiarios,omitempty"`
}

// Product representa um seguro contratado por um cliente
type Product struct {
	ID          uint
	Type        ProductType
	Description string
	Value       float64
	Details     ProductDetails
	CustomerID  uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MonthlyPremium calcula a mensalidade conforme o tipo do seguro
func (p *Product) MonthlyPremium() float64 {
	var premium float64
	switch p.Type {
	case ProductTypeAuto:
		premium = AutoMonthlyPremium
	case ProductTypeResidential:
		premium = p.Value * ResidentialPremiumPct
	case ProductTypeLife:
		premium = p.Value * LifePremiumPct
	}
	return RoundCents(premium)
}

// InsuredValue é o valor usado nos relatórios de valor segurado
func (p *Product) InsuredValue() float64 {
	if p.Type == ProductTypeAuto {
		return 0
	}
	return p.Value
}

// DefaultDescription monta a descrição a partir dos detalhes
func (p *Product) DefaultDescription() string {
	switch p.Type {
	case ProductTypeAuto:
		return strings.TrimSpace(p.Details.Model + " " + p.Details.Plate)
	case ProductTypeResidential:
		return p.Details.Address
	case ProductTypeLife:
		return strings.Join(p.Details.Beneficiaries, ", ")
	}
	return ""
}

// RoundCents arredonda para duas casas decimais
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
