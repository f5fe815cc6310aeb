package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

const migrationTable = "schema_migrations"

// migration paso de esquema versionado. Los pasos se aplican en orden y cada
// uno queda registrado, de modo que subir de versión migra los registros
// existentes en vez de descartarlos.
type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "0001_invoices",
		sql: `
CREATE TABLE IF NOT EXISTS invoices (
    id                   TEXT PRIMARY KEY,
    invoice_number       TEXT NOT NULL DEFAULT '',
    created_at           INTEGER NOT NULL,
    seller_name          TEXT NOT NULL DEFAULT '',
    seller_address       TEXT NOT NULL DEFAULT '',
    seller_tax_id        TEXT NOT NULL DEFAULT '',
    customer_name        TEXT NOT NULL DEFAULT '',
    customer_address     TEXT NOT NULL DEFAULT '',
    customer_tax_id      TEXT NOT NULL DEFAULT '',
    currency_code        TEXT NOT NULL,
    currency_symbol      TEXT NOT NULL DEFAULT '',
    currency_minor_units INTEGER NOT NULL DEFAULT 2,
    tax_mode             TEXT NOT NULL,
    tax_label            TEXT NOT NULL DEFAULT '',
    tax_rate             TEXT NOT NULL DEFAULT '0',
    subtotal             TEXT NOT NULL,
    tax_amount           TEXT NOT NULL,
    total                TEXT NOT NULL,
    qr_enabled           INTEGER NOT NULL DEFAULT 0,
    schema_version       INTEGER NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number
    ON invoices (invoice_number) WHERE invoice_number <> '';

CREATE INDEX IF NOT EXISTS idx_invoices_created_at
    ON invoices (created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS invoice_items (
    invoice_id TEXT NOT NULL REFERENCES invoices (id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    id         TEXT NOT NULL,
    name       TEXT NOT NULL,
    qty        INTEGER NOT NULL,
    price      TEXT NOT NULL,
    PRIMARY KEY (invoice_id, position)
);
`,
	},
	{
		name: "0002_sequences",
		sql: `
CREATE TABLE IF NOT EXISTS sequences (
    prefix TEXT NOT NULL,
    year   INTEGER NOT NULL,
    next   INTEGER NOT NULL,
    PRIMARY KEY (prefix, year)
);
`,
	},
}

// applyMigrations ejecuta cada paso como máximo una vez, cada uno dentro de su
// propia transacción.
func applyMigrations(sqlDB *sql.DB) error {
	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name       TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`, migrationTable)
	if _, err := sqlDB.Exec(createSQL); err != nil {
		return fmt.Errorf("crear tabla de migraciones: %w", err)
	}

	for _, m := range migrations {
		applied, err := isApplied(sqlDB, m.name)
		if err != nil {
			return fmt.Errorf("consultar migración %s: %w", m.name, err)
		}
		if applied {
			continue
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("iniciar transacción de migración %s: %w", m.name, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("ejecutar migración %s: %w", m.name, err)
		}
		if _, err := tx.Exec(
			fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", migrationTable),
			m.name, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("registrar migración %s: %w", m.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("confirmar migración %s: %w", m.name, err)
		}
	}
	return nil
}

func isApplied(sqlDB *sql.DB, name string) (bool, error) {
	var found int
	err := sqlDB.QueryRow("SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
