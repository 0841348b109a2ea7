package main

import (
	"fmt"

	"github.com/blockstack-chain/marf-store/triecodec"
)

// unwiredCodec satisfies triecodec.Codec so marfd can open a store without
// linking against a concrete trie implementation. The trie algorithm and
// its byte-level codec are an external collaborator (spec.md's "Out of
// scope" list): this binary's job is to serve blobs, not decode them. A
// deployment that needs read_hash/read_node to actually work links in its
// own triecodec.Codec and passes it to marf.Open in place of this one.
type unwiredCodec struct{}

func (unwiredCodec) RootPtrOffset() uint64 { return 0 }

func (unwiredCodec) ReadRootPtr(r triecodec.Reader) (triecodec.TriePtr, error) {
	return triecodec.TriePtr{}, fmt.Errorf("marfd: no trie codec configured, rebuild with one linked in")
}

func (unwiredCodec) ReadNodeHash(r triecodec.Reader, ptr triecodec.TriePtr) (triecodec.Hash, error) {
	return triecodec.Hash{}, fmt.Errorf("marfd: no trie codec configured, rebuild with one linked in")
}

func (unwiredCodec) ReadNode(r triecodec.Reader, ptr triecodec.TriePtr) (triecodec.Node, triecodec.Hash, error) {
	return nil, triecodec.Hash{}, fmt.Errorf("marfd: no trie codec configured, rebuild with one linked in")
}
