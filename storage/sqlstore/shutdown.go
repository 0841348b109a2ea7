package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/blockstack-chain/marf-store/marferr"
)

// WasUncleanShutdown reports whether the previous process using this store
// exited without calling MarkClean — i.e. the store_meta "running" marker
// was left set. SPEC_FULL §4.1 wires this to a call to UnlockAll at
// startup, recovering the "lock held, writer gone" case spec §3's
// lifecycle note describes but leaves to the caller.
func (s *Store) WasUncleanShutdown(ctx context.Context) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM store_meta WHERE key = ?`, metaKeyRunning).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, marferr.Wrap(marferr.Backend, "was_unclean_shutdown", err)
	}
	return value == "1", nil
}

// MarkStartup records that a writer is now running against this store,
// overwriting any prior marker. Call this after resolving an unclean prior
// shutdown (if any), not before, so the recovery check above still sees
// the stale marker while recovery is in progress.
func (s *Store) MarkStartup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO store_meta (key, value) VALUES (?, '1')
		 ON CONFLICT(key) DO UPDATE SET value = '1'`, metaKeyRunning)
	if err != nil {
		return marferr.Wrap(marferr.Backend, "mark_startup", err)
	}
	return nil
}

// MarkClean records a graceful shutdown, clearing the marker MarkStartup
// set. Call this from Close.
func (s *Store) MarkClean(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO store_meta (key, value) VALUES (?, '0')
		 ON CONFLICT(key) DO UPDATE SET value = '0'`, metaKeyRunning)
	if err != nil {
		return marferr.Wrap(marferr.Backend, "mark_clean", err)
	}
	return nil
}
