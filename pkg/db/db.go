package db

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/google/uuid"

	// use the sqlite db driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed base.sql
var baseSQL string

// Database manages the sqlite connection. All operations are synchronous
// calls from a single logical actor; the only shared resource is the store
// itself and the transaction boundary is the only coordination needed.
type Database struct {
	conn *sql.DB
}

// NewDatabase connects to the sqlite database at the given filename and
// initializes the schema if not present. The setup sql is idempotent, so
// reopening an existing file is safe.
func NewDatabase(ctx context.Context, filename string) (*Database, error) {
	conn, err := sql.Open("sqlite3", filename+"?_foreign_keys=on")
	if err != nil {
		return nil, storagef(err, "connecting to sqlite db at %s", filename)
	}

	database := Database{conn: conn}

	if err := database.initialize(ctx); err != nil {
		conn.Close()

		return nil, err
	}

	return &database, nil
}

func (d *Database) initialize(ctx context.Context) error {
	// run idempotent setup sql to create empty tables if they don't exist
	if _, err := d.conn.ExecContext(ctx, baseSQL); err != nil {
		return storagef(err, "running base sql")
	}

	return nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.conn.Close()
}

// NewID returns a fresh opaque identifier for a row.
func NewID() string {
	return uuid.NewString()
}

// execer is satisfied by both *sql.DB and *sql.Tx so row operations can run
// standalone or inside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// withTx runs fn inside a transaction: every write commits or none do, and a
// failure partway rolls back all writes in the unit.
func (d *Database) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return storagef(err, "beginning %s", op)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return storagef(err, "committing %s", op)
	}

	return nil
}
