package auditfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
)

func TestJournal_WriteAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "auditoria.log")

	journal, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	id := uint(42)
	ts := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	require.NoError(t, journal.Write(&entities.AuditEntry{
		ID:        "primeira",
		Timestamp: ts,
		Username:  "admin",
		Operation: entities.OperationCreate,
		Entity:    entities.EntityCustomer,
		EntityID:  &id,
		Status:    entities.AuditStatusSuccess,
		Details:   map[string]any{"nome": "Maria"},
	}))
	require.NoError(t, journal.Write(&entities.AuditEntry{
		ID:        "segunda",
		Timestamp: ts.Add(time.Minute),
		Username:  "admin",
		Operation: entities.OperationDelete,
		Entity:    entities.EntityCustomer,
		Status:    entities.AuditStatusError,
	}))

	entries, err := journal.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "segunda", entries[0].ID)
	assert.Equal(t, "primeira", entries[1].ID)
	assert.True(t, ts.Equal(entries[1].Timestamp))
	require.NotNil(t, entries[1].EntityID)
	assert.Equal(t, uint(42), *entries[1].EntityID)
	assert.Equal(t, "Maria", entries[1].Details["nome"])
	assert.Nil(t, entries[0].EntityID)

	limited, err := journal.Recent(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestJournal_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auditoria.log")
	require.NoError(t, os.WriteFile(path, []byte("2024-01-01 | admin | texto antigo\n"), 0o600))

	journal, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	require.NoError(t, journal.Write(&entities.AuditEntry{ID: "nova", Timestamp: time.Now()}))

	entries, err := journal.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nova", entries[0].ID)
}
