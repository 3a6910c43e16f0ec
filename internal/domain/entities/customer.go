package entities

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AdultAge é a idade mínima para contratação sem restrições
const AdultAge = 18

// Customer representa um cliente segurado
type Customer struct {
	ID        uint
	Name      string
	CPF       string // apenas dígitos
	Phone     string
	Email     string
	BirthDate *time.Time
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Normalize padroniza nome e endereço em Title Case e email em minúsculas
func (c *Customer) Normalize() {
	c.Name = TitleCase(c.Name)
	c.Address = TitleCase(c.Address)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
}

// Age retorna a idade em anos completos na data now.
// Retorna -1 quando a data de nascimento não é conhecida.
func (c *Customer) Age(now time.Time) int {
	if c.BirthDate == nil {
		return -1
	}
	return AgeAt(*c.BirthDate, now)
}

// IsMinor indica se o cliente tem menos de 18 anos
func (c *Customer) IsMinor(now time.Time) bool {
	age := c.Age(now)
	return age >= 0 && age < AdultAge
}

// AgeAt calcula anos completos entre birth e now
func AgeAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// TitleCase aplica capitalização de título em pt-BR, colapsando espaços
func TitleCase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	return cases.Title(language.BrazilianPortuguese).String(s)
}
