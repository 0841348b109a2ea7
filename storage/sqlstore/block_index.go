package sqlstore

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/blockstack-chain/marf-store/core/types"
	"github.com/blockstack-chain/marf-store/marferr"
)

func encodeHash(h types.BlockHash) string {
	return hex.EncodeToString(h[:])
}

func decodeHash(s string) (types.BlockHash, error) {
	var h types.BlockHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != len(h) {
		return h, errors.New("block_hash column has the wrong length")
	}
	copy(h[:], b)
	return h, nil
}

// IdOf resolves block_hash to its assigned block_id. Fails with NotFound
// when absent (spec §4.2).
func (s *Store) IdOf(ctx context.Context, hash types.BlockHash) (types.BlockID, error) {
	var id uint32
	err := s.db.QueryRowContext(ctx,
		`SELECT block_id FROM marf_data WHERE block_hash = ?`, encodeHash(hash)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, marferr.Wrap(marferr.NotFound, "id_of", err)
	}
	if err != nil {
		return 0, marferr.Wrap(marferr.Backend, "id_of", err)
	}
	return types.BlockID(id), nil
}

// HashOf resolves block_id back to its block_hash. Fails with NotFound when
// absent (spec §4.2).
func (s *Store) HashOf(ctx context.Context, id types.BlockID) (types.BlockHash, error) {
	var hashHex string
	err := s.db.QueryRowContext(ctx,
		`SELECT block_hash FROM marf_data WHERE block_id = ?`, uint32(id)).Scan(&hashHex)
	if errors.Is(err, sql.ErrNoRows) {
		return types.BlockHash{}, marferr.Wrap(marferr.NotFound, "hash_of", err)
	}
	if err != nil {
		return types.BlockHash{}, marferr.Wrap(marferr.Backend, "hash_of", err)
	}
	hash, err := decodeHash(hashHex)
	if err != nil {
		return types.BlockHash{}, marferr.Wrap(marferr.Corruption, "hash_of: decode block_hash column", err)
	}
	return hash, nil
}

// Count returns the current maximum block_id, or 0 when the store is empty
// (spec §4.2). Because block_id is assigned from a monotonic primary key
// that is never reused, this doubles as the total number of committed
// blocks (spec §3 invariant 1).
func (s *Store) Count(ctx context.Context) (uint32, error) {
	var count uint32
	err := s.db.QueryRowContext(ctx,
		`SELECT IFNULL(MAX(block_id), 0) FROM marf_data`).Scan(&count)
	if err != nil {
		return 0, marferr.Wrap(marferr.Backend, "count", err)
	}
	return count, nil
}
