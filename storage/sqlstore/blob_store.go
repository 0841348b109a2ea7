package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-sqlite3"

	"github.com/blockstack-chain/marf-store/core/types"
	"github.com/blockstack-chain/marf-store/marferr"
	"github.com/blockstack-chain/marf-store/params"
	"github.com/blockstack-chain/marf-store/triecodec"
)

const (
	tableCommitted = "marf_data"
	tableMined     = "mined_blocks"
)

// Insert atomically appends a new row to the committed namespace and
// returns its assigned block_id. It fails with Duplicate if block_hash is
// already present and with Exhausted if the assigned id would exceed
// params.MaxBlockID (spec §4.1).
func (s *Store) Insert(ctx context.Context, hash types.BlockHash, data []byte) (types.BlockID, error) {
	return s.insert(ctx, tableCommitted, hash, data, false)
}

// InsertOrReplaceMined writes to the mined namespace, replacing any prior
// row for hash (last-writer-wins). It never fails with Duplicate (spec
// §4.1, §3 "Mined-but-unconfirmed block entry").
func (s *Store) InsertOrReplaceMined(ctx context.Context, hash types.BlockHash, data []byte) (types.BlockID, error) {
	return s.insert(ctx, tableMined, hash, data, true)
}

func (s *Store) insert(ctx context.Context, table string, hash types.BlockHash, data []byte, replace bool) (types.BlockID, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, marferr.Wrap(marferr.Backend, "insert: begin", err)
	}
	defer tx.Rollback()

	var maxID uint32
	if err := tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT IFNULL(MAX(block_id), 0) FROM %s`, table)).Scan(&maxID); err != nil {
		return 0, marferr.Wrap(marferr.Backend, "insert: read max block_id", err)
	}
	if maxID >= params.MaxBlockID {
		log.Error("MARF block id exhausted", "table", table, "max_block_id", maxID)
		return 0, marferr.Wrap(marferr.Exhausted, "insert", nil)
	}

	verb := "INSERT"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	stmt := fmt.Sprintf(`%s INTO %s (block_hash, data) VALUES (?, ?)`, verb, table)
	res, err := tx.ExecContext(ctx, stmt, encodeHash(hash), data)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return 0, marferr.Wrap(marferr.Duplicate, "insert", err)
		}
		return 0, marferr.Wrap(marferr.Backend, "insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, marferr.Wrap(marferr.Backend, "insert: last insert id", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, marferr.Wrap(marferr.Backend, "insert: commit", err)
	}
	return types.BlockID(id), nil
}

func isUniqueConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// ReadRange performs a random-access read of length bytes starting at
// offset within the blob committed for block_id, without materializing the
// full blob (spec §4.1). It fails with NotFound if block_id doesn't exist
// and OutOfBounds if the range exceeds the blob.
func (s *Store) ReadRange(ctx context.Context, id types.BlockID, offset, length uint32) ([]byte, error) {
	return s.readRangeFrom(ctx, tableCommitted, id, offset, length)
}

// ReadMinedRange is ReadRange over the mined namespace, reading from the
// blob InsertOrReplaceMined stored under id.
func (s *Store) ReadMinedRange(ctx context.Context, id types.BlockID, offset, length uint32) ([]byte, error) {
	return s.readRangeFrom(ctx, tableMined, id, offset, length)
}

func (s *Store) readRangeFrom(ctx context.Context, table string, id types.BlockID, offset, length uint32) ([]byte, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, marferr.Wrap(marferr.Backend, "read_range: conn", err)
	}
	defer conn.Close()

	var out []byte
	err = conn.Raw(func(driverConn interface{}) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}
		blob, err := sc.Blob("main", table, "data", int64(id), false)
		if err != nil {
			if isNoRowErr(err) {
				return marferr.Wrap(marferr.NotFound, "read_range", err)
			}
			return marferr.Wrap(marferr.Backend, "read_range: open blob", err)
		}
		defer blob.Close()

		size := int64(blob.Size())
		if int64(offset)+int64(length) > size {
			return marferr.Wrap(marferr.OutOfBounds, "read_range", nil)
		}
		if _, err := blob.Seek(int64(offset), io.SeekStart); err != nil {
			return marferr.Wrap(marferr.Backend, "read_range: seek", err)
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(blob, buf); err != nil {
			return marferr.Wrap(marferr.Backend, "read_range: read", err)
		}
		out = buf
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isNoRowErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrError || sqliteErr.Code == sqlite3.ErrRange
	}
	return errors.Is(err, sql.ErrNoRows)
}

// blobReader adapts a random-access read over (table, block_id) to
// triecodec.Reader (io.ReaderAt), so the external codec can seek directly
// into the blob without this package decoding node bytes itself.
type blobReader struct {
	ctx   context.Context
	store *Store
	table string
	id    types.BlockID
}

func (r *blobReader) ReadAt(p []byte, off int64) (int, error) {
	data, err := r.store.readRangeFrom(r.ctx, r.table, r.id, uint32(off), uint32(len(p)))
	if err != nil {
		return 0, err
	}
	copy(p, data)
	return len(data), nil
}

// ReadHash combines ReadRange with the codec's node-hash offset rule,
// returning just the 32-byte hash stored at ptr (spec §4.1).
func (s *Store) ReadHash(ctx context.Context, id types.BlockID, ptr triecodec.TriePtr) (triecodec.Hash, error) {
	r := &blobReader{ctx: ctx, store: s, table: tableCommitted, id: id}
	return s.codec.ReadNodeHash(r, ptr)
}

// ReadNode defers to the external codec to decode the full node named by
// ptr along with its stored hash (spec §4.1).
func (s *Store) ReadNode(ctx context.Context, id types.BlockID, ptr triecodec.TriePtr) (triecodec.Node, triecodec.Hash, error) {
	r := &blobReader{ctx: ctx, store: s, table: tableCommitted, id: id}
	return s.codec.ReadNode(r, ptr)
}

// RootHashAndBlockHash pairs a block's root trie hash with its block_hash,
// the unit ReadAllRoots scans.
type RootHashAndBlockHash struct {
	TrieHash  triecodec.Hash
	BlockHash types.BlockHash
}

// ReadAllRoots scans the committed namespace, extracting the root hash from
// the fixed root-pointer offset of each blob (spec §4.1; SPEC_FULL §4.2
// promotes this from a test-only helper to a documented operation).
func (s *Store) ReadAllRoots(ctx context.Context) ([]RootHashAndBlockHash, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT block_id, block_hash FROM marf_data`)
	if err != nil {
		return nil, marferr.Wrap(marferr.Backend, "read_all_roots", err)
	}
	defer rows.Close()

	// Collect the rows before reading any blob: the pool holds a single
	// connection, and rows keeps it busy until it is closed.
	type entry struct {
		id        uint32
		blockHash types.BlockHash
	}
	var entries []entry
	for rows.Next() {
		var id uint32
		var hashHex string
		if err := rows.Scan(&id, &hashHex); err != nil {
			return nil, marferr.Wrap(marferr.Backend, "read_all_roots: scan", err)
		}
		blockHash, err := decodeHash(hashHex)
		if err != nil {
			return nil, marferr.Wrap(marferr.Corruption, "read_all_roots: decode block_hash", err)
		}
		entries = append(entries, entry{id: id, blockHash: blockHash})
	}
	if err := rows.Err(); err != nil {
		return nil, marferr.Wrap(marferr.Backend, "read_all_roots: iterate", err)
	}
	rows.Close()

	var out []RootHashAndBlockHash
	for _, e := range entries {
		id, blockHash := e.id, e.blockHash
		r := &blobReader{ctx: ctx, store: s, table: tableCommitted, id: types.BlockID(id)}
		rootPtr, err := s.codec.ReadRootPtr(r)
		if err != nil {
			return nil, marferr.Wrap(marferr.Corruption, "read_all_roots: decode root pointer", err)
		}
		trieHash, err := s.codec.ReadNodeHash(r, rootPtr)
		if err != nil {
			return nil, marferr.Wrap(marferr.Corruption, "read_all_roots: read root hash", err)
		}
		out = append(out, RootHashAndBlockHash{TrieHash: trieHash, BlockHash: blockHash})
	}
	return out, nil
}
