// Package testutil reúne utilitários compartilhados pelos testes.
package testutil

import (
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rafabene/seguros-backoffice/internal/infrastructure/logging"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/persistence/postgres"
)

// TB é o subconjunto de testing.TB usado aqui; GinkgoT() também o satisfaz
type TB interface {
	Helper()
	TempDir() string
	Cleanup(func())
	Fatalf(format string, args ...any)
}

// OpenSQLite abre um banco sqlite em arquivo temporário com chaves estrangeiras
// ativas e o schema relacional migrado
func OpenSQLite(t TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "seguros.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), postgres.GormConfig(logging.Nop()))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = postgres.Close(db) })
	return db
}
