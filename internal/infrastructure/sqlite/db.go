// Package sqlite implementa la persistencia local durable sobre SQLite
// (modernc.org/sqlite, driver puro Go): repositorio de facturas, secuencias de
// numeración, runner transaccional y difusor de cambios.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// DB maneja el archivo SQLite con apertura perezosa e idempotente: el primer
// acceso abre (o crea) la base y aplica migraciones; los accesos concurrentes
// comparten el mismo handle sin doble apertura. No hay teardown implícito.
type DB struct {
	path string

	once  sync.Once
	sqlDB *sql.DB
	err   error
}

// NewDB prepara el manejador sin abrir el archivo todavía.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Handle devuelve el *sql.DB compartido, abriendo la base la primera vez.
func (d *DB) Handle() (*sql.DB, error) {
	d.once.Do(func() {
		d.sqlDB, d.err = open(d.path)
	})
	return d.sqlDB, d.err
}

// Close cierra el handle si llegó a abrirse.
func (d *DB) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

// open abre el archivo en modo WAL y aplica las migraciones pendientes.
func open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("la ruta del almacén es obligatoria")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de datos: %w", err)
		}
	}

	// Sintaxis _pragma del driver modernc: cada pragma se aplica en cada
	// conexión nueva del pool.
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("aplicar migraciones: %w", err)
	}
	return sqlDB, nil
}
