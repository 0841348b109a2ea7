package sqlstore

import (
	"context"
	"database/sql"
)

// schema is the idempotent DDL for the three tables spec §6 names, plus
// store_meta for the shutdown tracker. Column names and constraints are
// the contract; table names are illustrative.
const schema = `
CREATE TABLE IF NOT EXISTS marf_data (
    block_id   INTEGER PRIMARY KEY,
    block_hash TEXT UNIQUE NOT NULL,
    data       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS block_hash_marf_data ON marf_data(block_hash);

CREATE TABLE IF NOT EXISTS mined_blocks (
    block_id   INTEGER PRIMARY KEY,
    block_hash TEXT UNIQUE NOT NULL,
    data       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS block_hash_mined_blocks ON mined_blocks(block_hash);

CREATE TABLE IF NOT EXISTS block_extension_locks (
    block_hash TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS store_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// metaKeyRunning is the store_meta row the shutdown tracker uses to detect
// an unclean prior exit (SPEC_FULL §4.1).
const metaKeyRunning = "running"

// createTablesIfNeeded runs the DDL above inside a single transaction, as
// spec §6 requires ("All three are created idempotently at initialization
// within a single transaction").
func createTablesIfNeeded(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
