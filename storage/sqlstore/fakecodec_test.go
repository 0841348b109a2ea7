package sqlstore

import (
	"encoding/binary"

	"github.com/blockstack-chain/marf-store/triecodec"
)

// fakeNode is the minimal triecodec.Node this package's tests need.
type fakeNode struct{ typ string }

func (n fakeNode) NodeType() string { return n.typ }

// fakeCodec is a tiny stand-in for the real trie-node codec. A blob built
// with buildBlob below carries a 9-byte root-pointer header (offset,
// length, backptr flag, big-endian) followed by node bytes whose first 32
// bytes are always the node's "hash".
type fakeCodec struct{}

func (fakeCodec) RootPtrOffset() uint64 { return 0 }

func (fakeCodec) ReadRootPtr(r triecodec.Reader) (triecodec.TriePtr, error) {
	buf := make([]byte, 9)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return triecodec.TriePtr{}, err
	}
	return triecodec.TriePtr{
		Offset:  binary.BigEndian.Uint32(buf[0:4]),
		Length:  binary.BigEndian.Uint32(buf[4:8]),
		BackPtr: buf[8] != 0,
	}, nil
}

func (fakeCodec) ReadNodeHash(r triecodec.Reader, ptr triecodec.TriePtr) (triecodec.Hash, error) {
	var h triecodec.Hash
	buf := make([]byte, 32)
	if _, err := r.ReadAt(buf, int64(ptr.Offset)); err != nil {
		return h, err
	}
	copy(h[:], buf)
	return h, nil
}

func (c fakeCodec) ReadNode(r triecodec.Reader, ptr triecodec.TriePtr) (triecodec.Node, triecodec.Hash, error) {
	h, err := c.ReadNodeHash(r, ptr)
	return fakeNode{typ: "leaf"}, h, err
}

// buildBlob assembles a blob whose root pointer (at offset 0) names a node
// at rootOffset with the given hash as its first 32 bytes.
func buildBlob(rootOffset uint32, hash triecodec.Hash) []byte {
	header := make([]byte, 9)
	binary.BigEndian.PutUint32(header[0:4], rootOffset)
	binary.BigEndian.PutUint32(header[4:8], 32)
	header[8] = 0

	blob := make([]byte, rootOffset+32)
	copy(blob, header)
	copy(blob[rootOffset:], hash[:])
	return blob
}
