// Package params holds the size and layout constants of the MARF store.
package params

const (
	// MaxBlockID is the largest block_id the store will assign. Exceeding it
	// is a fatal exhaustion condition (spec §3 invariant 6, §7 Exhausted).
	MaxBlockID uint32 = (1 << 31) - 1

	// BlockHashLength is the length in bytes of a block_hash.
	BlockHashLength = 32

	// TrieHashLength is the length in bytes of a node/root hash stored inside
	// a blob.
	TrieHashLength = 32
)

// Default data directory layout, mirroring the single-file-plus-lock
// convention of other embedded-SQLite geth-family stores.
const (
	// DefaultDBFileName is the SQLite database file created inside the data
	// directory.
	DefaultDBFileName = "marf.sqlite"

	// DefaultLockFileName is the advisory flock guard placed next to the
	// database file.
	DefaultLockFileName = "marf.sqlite.lock"
)

// BusyTimeoutMillis bounds how long a writer waits on SQLITE_BUSY before
// surfacing a Backend error, since the store allows concurrent readers
// against a single writer per distinct block_hash (spec §5).
const BusyTimeoutMillis = 5000

// Version is the marfd release version reported by `marfd --version`.
const Version = "0.1.0"
