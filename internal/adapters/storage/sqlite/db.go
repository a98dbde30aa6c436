package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"shelter-adoptions/internal/adapters/storage/sqldb"

	sqlite3 "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// LockClause vacío: con _txlock=immediate cada transacción toma el lock de
// escritura al empezar, así que leer el perro ya es una lectura serializante.
var Dialect = sqldb.Dialect{
	Name:               "sqlite",
	IsApprovedConflict: isApprovedConflict,
}

// Open abre (o crea) la base en path con WAL, busy_timeout y foreign keys.
// ":memory:" sirve para tests: con una sola conexión la base vive lo que vive el pool.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite admite un solo escritor: una conexión evita SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_txlock=immediate"
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("sqlite %q: %w", p, err)
		}
	}
	return nil
}

// Migrate aplica el esquema. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("sqlite schema: %w", err)
	}
	return nil
}

func New(db *sql.DB) *sqldb.Store {
	return sqldb.New(db, Dialect)
}

// SQLite no informa el nombre del índice; la violación única sobre dog_id
// en adoption_applications solo puede venir del índice de aprobadas.
func isApprovedConflict(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return strings.Contains(se.Error(), "adoption_applications.dog_id")
}
