package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domainerrors "github.com/rafabene/seguros-backoffice/internal/domain/errors"
	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/domain/repositories"
)

// converter adapta o valor de um campo ao tipo da coluna
type converter func(any) (any, error)

// columns mapeia campos atualizáveis para colunas
type columns map[string]converter

func identity(v any) (any, error) { return v, nil }

func detailsJSON(v any) (any, error) {
	switch d := v.(type) {
	case entities.ProductDetails:
		return marshalDetails(d)
	case *entities.ProductDetails:
		return marshalDetails(*d)
	case datatypes.JSON:
		return d, nil
	}
	return nil, fmt.Errorf("%w: details must be ProductDetails, got %T", domainerrors.ErrInvalidValue, v)
}

func marshalDetails(d entities.ProductDetails) (datatypes.JSON, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal product details: %w", err)
	}
	return datatypes.JSON(data), nil
}

// buildUpdates monta o mapa coluna -> valor de um UPDATE parcial.
// Campos fora de allowed são rejeitados; um mapa vazio também.
func buildUpdates(fields repositories.Fields, allowed columns) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, domainerrors.ErrNothingToUpdate
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make(map[string]any, len(fields))
	for _, key := range keys {
		convert, ok := allowed[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domainerrors.ErrUnknownField, key)
		}
		value, err := convert(fields[key])
		if err != nil {
			return nil, err
		}
		updates[key] = value
	}
	return updates, nil
}

// errorMap indica o erro de domínio de cada violação traduzida pelo gorm
type errorMap struct {
	notFound  error // registro inexistente
	parent    error // chave estrangeira violada
	duplicate error // unicidade violada
}

func (m errorMap) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && m.notFound != nil:
		return m.notFound
	case errors.Is(err, gorm.ErrForeignKeyViolated) && m.parent != nil:
		return fmt.Errorf("%w: %v", m.parent, err)
	case errors.Is(err, gorm.ErrDuplicatedKey) && m.duplicate != nil:
		return fmt.Errorf("%w: %v", m.duplicate, err)
	}
	return err
}

// updateByID aplica um UPDATE parcial; nenhuma linha afetada resulta em notFound
func updateByID(ctx context.Context, db *gorm.DB, model any, id uint, fields repositories.Fields, allowed columns, errs errorMap) error {
	updates, err := buildUpdates(fields, allowed)
	if err != nil {
		return err
	}

	result := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return errs.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.notFound
	}
	return nil
}

// deleteByID remove pela chave primária; nenhuma linha afetada resulta em notFound
func deleteByID(ctx context.Context, db *gorm.DB, model any, id uint, errs errorMap) error {
	result := db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return errs.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.notFound
	}
	return nil
}
