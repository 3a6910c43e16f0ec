package valueobjects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rafabene/seguros-backoffice/internal/domain/errors"
)

func TestNewCPF(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{name: "formatado válido", input: "529.982.247-25", want: "52998224725", valid: true},
		{name: "só dígitos válido", input: "11144477735", want: "11144477735", valid: true},
		{name: "dígito verificador errado", input: "529.982.247-24", valid: false},
		{name: "todos iguais", input: "111.111.111-11", valid: false},
		{name: "curto demais", input: "1234567890", valid: false},
		{name: "vazio", input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpf, err := NewCPF(tt.input)
			if !tt.valid {
				assert.True(t, errors.Is(err, domainerrors.ErrInvalidCPF))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cpf.String())
		})
	}
}

func TestCPF_Formatted(t *testing.T) {
	cpf, err := NewCPF("52998224725")
	require.NoError(t, err)
	assert.Equal(t, "529.982.247-25", cpf.Formatted())
	assert.Equal(t, "123", FormatCPF("123"))
}

func TestNewPlate(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		mercosul bool
		valid    bool
	}{
		{input: "abc1234", want: "ABC1234", valid: true},
		{input: "ABC-1234", want: "ABC1234", valid: true},
		{input: "bra2e19", want: "BRA2E19", mercosul: true, valid: true},
		{input: "AB12345", valid: false},
		{input: "ABC12D3", valid: false},
		{input: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			plate, err := NewPlate(tt.input)
			if !tt.valid {
				assert.ErrorIs(t, err, domainerrors.ErrInvalidPlate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, plate.String())
			assert.Equal(t, tt.mercosul, plate.IsMercosul())
		})
	}
}

func TestNewEmail(t *testing.T) {
	email, err := NewEmail("  Maria.Silva@Exemplo.COM ")
	require.NoError(t, err)
	assert.Equal(t, "maria.silva@exemplo.com", email.String())

	_, err = NewEmail("sem-arroba")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidEmail)
}
