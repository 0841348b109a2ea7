package sqlstore

import (
	"testing"

	"github.com/blockstack-chain/marf-store/core/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), "", fakeCodec{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func testHash(b byte) types.BlockHash {
	var h types.BlockHash
	h[0] = b
	h[31] = b
	return h
}
