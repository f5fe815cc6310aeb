package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/factura-local/internal/infrastructure/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(filepath.Join(t.TempDir(), "facturas.db"))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestSequenceRepo_Monotona la secuencia arranca en 1 y crece de a uno por
// cada reserva del mismo (prefijo, año).
func TestSequenceRepo_Monotona(t *testing.T) {
	db := newTestDB(t)
	handle, err := db.Handle()
	require.NoError(t, err)
	repo := sqlite.NewSequenceRepository(handle)
	ctx := context.Background()

	for want := int64(1); want <= 10; want++ {
		got, err := repo.Next(ctx, "GST", 2026)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// TestSequenceRepo_ContadoresIndependientes prefijos y años distintos llevan
// contadores separados.
func TestSequenceRepo_ContadoresIndependientes(t *testing.T) {
	db := newTestDB(t)
	handle, err := db.Handle()
	require.NoError(t, err)
	repo := sqlite.NewSequenceRepository(handle)
	ctx := context.Background()

	n1, err := repo.Next(ctx, "GST", 2026)
	require.NoError(t, err)
	n2, err := repo.Next(ctx, "VAT", 2026)
	require.NoError(t, err)
	n3, err := repo.Next(ctx, "GST", 2027)
	require.NoError(t, err)

	assert.EqualValues(t, 1, n1)
	assert.EqualValues(t, 1, n2)
	assert.EqualValues(t, 1, n3)

	n4, err := repo.Next(ctx, "GST", 2026)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n4)
}

// TestSequenceRepo_RollbackNoConsume una reserva dentro de una transacción que
// hace rollback no avanza el contador visible.
func TestSequenceRepo_RollbackNoConsume(t *testing.T) {
	db := newTestDB(t)
	handle, err := db.Handle()
	require.NoError(t, err)
	ctx := context.Background()

	tx, err := handle.BeginTx(ctx, nil)
	require.NoError(t, err)
	inTx, err := sqlite.NewSequenceRepository(tx).Next(ctx, "GST", 2026)
	require.NoError(t, err)
	assert.EqualValues(t, 1, inTx)
	require.NoError(t, tx.Rollback())

	after, err := sqlite.NewSequenceRepository(handle).Next(ctx, "GST", 2026)
	require.NoError(t, err)
	assert.EqualValues(t, 1, after, "el valor descartado debe reutilizarse")
}
