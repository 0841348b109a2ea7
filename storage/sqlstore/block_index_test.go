package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/blockstack-chain/marf-store/marferr"
	"github.com/blockstack-chain/marf-store/triecodec"
)

func TestBlockIndexRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	hashA := testHash(0xaa)
	idA, err := s.Insert(ctx, hashA, buildBlob(9, triecodec.Hash{1}))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	gotID, err := s.IdOf(ctx, hashA)
	if err != nil {
		t.Fatalf("IdOf: %v", err)
	}
	if gotID != idA {
		t.Fatalf("IdOf = %d, want %d", gotID, idA)
	}

	gotHash, err := s.HashOf(ctx, idA)
	if err != nil {
		t.Fatalf("HashOf: %v", err)
	}
	if gotHash != hashA {
		t.Fatalf("HashOf = %x, want %x", gotHash, hashA)
	}
}

func TestBlockIndexNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.IdOf(ctx, testHash(0x01)); !errors.Is(err, marferr.NotFound) {
		t.Fatalf("IdOf on unknown hash: got %v, want NotFound", err)
	}
	if _, err := s.HashOf(ctx, 999); !errors.Is(err, marferr.NotFound) {
		t.Fatalf("HashOf on unknown id: got %v, want NotFound", err)
	}
}

func TestBlockIndexCountIsMonotonic(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if count, err := s.Count(ctx); err != nil || count != 0 {
		t.Fatalf("Count on empty store = %d, %v; want 0, nil", count, err)
	}

	var lastID uint32
	for i := byte(1); i <= 5; i++ {
		id, err := s.Insert(ctx, testHash(i), buildBlob(9, triecodec.Hash{i}))
		if err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
		if uint32(id) <= lastID {
			t.Fatalf("block_id did not increase: got %d after %d", id, lastID)
		}
		lastID = uint32(id)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != lastID {
		t.Fatalf("Count = %d, want %d", count, lastID)
	}
}
