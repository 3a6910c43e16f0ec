package valueobjects

import (
	"regexp"
	"strings"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
)

var (
	legacyPlate   = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	mercosulPlate = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
)

// Plate é uma placa de veículo no padrão antigo (ABC1234) ou Mercosul (ABC1D23)
type Plate struct {
	value string
}

// NewPlate normaliza para maiúsculas, remove hífen e espaços e valida o formato
func NewPlate(raw string) (Plate, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "-", "")
	v = strings.ReplaceAll(v, " ", "")

	if !legacyPlate.MatchString(v) && !mercosulPlate.MatchString(v) {
		return Plate{}, errors.ErrInvalidPlate
	}
	return Plate{value: v}, nil
}

// String retorna a placa normalizada
func (p Plate) String() string {
	return p.value
}

// IsMercosul indica se a placa segue o padrão Mercosul
func (p Plate) IsMercosul() bool {
	return mercosulPlate.MatchString(p.value)
}
