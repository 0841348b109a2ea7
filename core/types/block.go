package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockHash is the 32-byte content hash identifying a block's trie. It is
// the value used in the committed and mined-but-unconfirmed namespaces and
// in the extension-lock set.
type BlockHash [32]byte

// Hex renders the hash as a lowercase, 0x-prefixed hex string, the wire
// format spec §6 requires for every hash field.
func (h BlockHash) Hex() string {
	return hexutil.Encode(h[:])
}

func (h BlockHash) String() string { return h.Hex() }

// IsZero reports whether h is the zero hash, used for optional parent
// pointers on a chain's first block.
func (h BlockHash) IsZero() bool {
	return h == BlockHash{}
}

// BlockID is the server-assigned, monotonic, non-zero primary key spec §3
// assigns on first persistence. It is a process-local identifier, not a
// consensus quantity.
type BlockID uint32

// BlockMetadata is the block-identifying envelope carried in every event
// dispatch payload (spec §4.4 step 3c, §6 wire format).
type BlockMetadata struct {
	BlockHash            BlockHash
	BlockHeight          uint64
	IndexBlockHash       BlockHash
	ParentBlockHash      BlockHash
	ParentMicroblockHash BlockHash
}
