package marf

import (
	"testing"

	"github.com/blockstack-chain/marf-store/marfconfig"
	"github.com/blockstack-chain/marf-store/triecodec"
)

type stubCodec struct{}

func (stubCodec) RootPtrOffset() uint64 { return 0 }
func (stubCodec) ReadRootPtr(r triecodec.Reader) (triecodec.TriePtr, error) {
	return triecodec.TriePtr{}, nil
}
func (stubCodec) ReadNodeHash(r triecodec.Reader, ptr triecodec.TriePtr) (triecodec.Hash, error) {
	return triecodec.Hash{}, nil
}
func (stubCodec) ReadNode(r triecodec.Reader, ptr triecodec.TriePtr) (triecodec.Node, triecodec.Hash, error) {
	return nil, triecodec.Hash{}, nil
}

func testConfig(t *testing.T) *marfconfig.Config {
	cfg := marfconfig.Defaults()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestOpenWiresConfiguredObservers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observers = []marfconfig.ObserverConfig{
		{Endpoint: "127.0.0.1:9153", Events: []string{"any"}},
		{Endpoint: "127.0.0.1:9154", Events: []string{"stx", "asset:SP000.token::foo"}},
	}

	store, err := Open(cfg, stubCodec{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if store.DB() == nil {
		t.Fatal("DB() returned nil")
	}

	observers := store.Dispatch.ListObservers()
	if len(observers) != 2 {
		t.Fatalf("got %d observers, want 2", len(observers))
	}
	if observers[0].Endpoint != "127.0.0.1:9153" || observers[1].Endpoint != "127.0.0.1:9154" {
		t.Fatalf("unexpected observer endpoints: %+v", observers)
	}
}

func TestOpenRejectsMalformedObserverEventKeyAndReleasesTheLock(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observers = []marfconfig.ObserverConfig{
		{Endpoint: "127.0.0.1:9153", Events: []string{"not-a-real-key"}},
	}

	if _, err := Open(cfg, stubCodec{}); err == nil {
		t.Fatal("expected Open to fail on an unrecognized event key")
	}

	// Open must have released the database and the data directory lock on
	// its error path, or this second Open on the same DataDir would fail.
	store, err := Open(cfg, stubCodec{})
	if err != nil {
		t.Fatalf("second Open after a failed Open: %v", err)
	}
	store.Close()
}

func TestClose(t *testing.T) {
	cfg := testConfig(t)
	store, err := Open(cfg, stubCodec{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
