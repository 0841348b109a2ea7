// Package triecodec names the external trie-node codec this store treats as
// an opaque collaborator. The byte-level layout of a node, how a TriePtr
// resolves to an offset, and how a node's hash is derived from its encoding
// are all owned by the trie algorithm, not by this package; triecodec only
// describes the shape of that collaboration.
package triecodec

import "io"

// TriePtr names a byte range inside a block's blob, as assigned by the trie
// algorithm. BackPtr indicates the pointer was inherited from an ancestor
// block's trie rather than written fresh in this block; the flag bits are
// opaque to the storage layer and simply round-tripped.
type TriePtr struct {
	Offset  uint32
	Length  uint32
	BackPtr bool
}

// Hash is the 32-byte digest stored alongside every trie node.
type Hash [32]byte

// Node is the opaque deserialized representation of a trie node. The
// storage layer never inspects its fields; it only ever receives one back
// from Codec.ReadNode to hand to a caller.
type Node interface {
	// NodeType identifies the concrete node shape for diagnostic logging.
	NodeType() string
}

// Reader is a random-access byte source over a single block's blob, wide
// enough for the codec to seek to ptr.Offset and read ptr.Length bytes
// without materializing the whole blob. *storage/sqlstore.blobReader
// implements it.
type Reader interface {
	io.ReaderAt
}

// Codec is the external trie-node codec consumed by storage/sqlstore. Its
// implementation lives in the trie algorithm package this store does not
// own; storage/sqlstore only calls through this interface.
type Codec interface {
	// RootPtrOffset is the fixed offset within any blob where the root
	// node's TriePtr is written (spec §6).
	RootPtrOffset() uint64

	// ReadNodeHash reads only the stored hash of the node named by ptr,
	// without decoding the node body.
	ReadNodeHash(r Reader, ptr TriePtr) (Hash, error)

	// ReadNode decodes the full node named by ptr along with its stored hash.
	ReadNode(r Reader, ptr TriePtr) (Node, Hash, error)

	// ReadRootPtr decodes the TriePtr written at RootPtrOffset.
	ReadRootPtr(r Reader) (TriePtr, error)
}
