package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate cria ou atualiza as tabelas, índices e chaves estrangeiras
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Tables retorna as tabelas existentes entre as gerenciadas pela aplicação
func Tables(db *gorm.DB) []string {
	migrator := db.Migrator()
	var present []string
	for _, model := range Models() {
		if migrator.HasTable(model) {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(model); err == nil {
				present = append(present, stmt.Schema.Table)
			}
		}
	}
	return present
}
