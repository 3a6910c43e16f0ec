package valueobjects

import (
	"strings"

	"github.com/rafabene/seguros-backoffice/internal/domain/errors"
)

// CPF é um value object com os 11 dígitos de um CPF válido
type CPF struct {
	digits string
}

// NewCPF remove a pontuação e valida os dígitos verificadores
func NewCPF(raw string) (CPF, error) {
	digits := onlyDigits(raw)
	if !isValidCPF(digits) {
		return CPF{}, errors.ErrInvalidCPF
	}
	return CPF{digits: digits}, nil
}

// String retorna apenas os dígitos
func (c CPF) String() string {
	return c.digits
}

// Formatted retorna o CPF no formato 000.000.000-00
func (c CPF) Formatted() string {
	return FormatCPF(c.digits)
}

// FormatCPF formata uma sequência de 11 dígitos; outras entradas voltam inalteradas
func FormatCPF(digits string) string {
	if len(digits) != 11 {
		return digits
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}

func isValidCPF(digits string) bool {
	if len(digits) != 11 {
		return false
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return false
	}
	return checkDigit(digits[:9], 10) == digits[9] && checkDigit(digits[:10], 11) == digits[10]
}

// checkDigit calcula o dígito verificador módulo 11 com pesos decrescentes a partir de weight
func checkDigit(prefix string, weight int) byte {
	sum := 0
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * (weight - i)
	}
	rest := sum % 11
	if rest < 2 {
		return '0'
	}
	return byte('0' + 11 - rest)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
