package sqlstore

import (
	"context"
	"testing"

	"github.com/blockstack-chain/marf-store/triecodec"
)

func TestTryLockExcludesSecondLocker(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	hash := testHash(0x61)

	ok, err := s.TryLock(ctx, hash)
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if !ok {
		t.Fatalf("first TryLock = false, want true")
	}

	ok, err = s.TryLock(ctx, hash)
	if err != nil {
		t.Fatalf("TryLock (second): %v", err)
	}
	if ok {
		t.Fatalf("second TryLock = true, want false (already locked)")
	}
}

func TestTryLockRejectsAlreadyCommitted(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	hash := testHash(0x62)

	if _, err := s.Insert(ctx, hash, buildBlob(9, triecodec.Hash{1})); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ok, err := s.TryLock(ctx, hash)
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if ok {
		t.Fatalf("TryLock on already-committed hash = true, want false")
	}
}

func TestUnlockThenTryLockSucceeds(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	hash := testHash(0x63)

	if ok, err := s.TryLock(ctx, hash); err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	if err := s.Unlock(ctx, hash); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if ok, err := s.TryLock(ctx, hash); err != nil || !ok {
		t.Fatalf("TryLock after Unlock: ok=%v err=%v", ok, err)
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.Unlock(ctx, testHash(0x64)); err != nil {
		t.Fatalf("Unlock on never-locked hash: %v", err)
	}
}

func TestUnlockAllClearsEveryLock(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	h1 := testHash(0x65)
	h2 := testHash(0x66)
	if ok, err := s.TryLock(ctx, h1); err != nil || !ok {
		t.Fatalf("TryLock h1: ok=%v err=%v", ok, err)
	}
	if ok, err := s.TryLock(ctx, h2); err != nil || !ok {
		t.Fatalf("TryLock h2: ok=%v err=%v", ok, err)
	}

	if err := s.UnlockAll(ctx); err != nil {
		t.Fatalf("UnlockAll: %v", err)
	}

	if ok, err := s.TryLock(ctx, h1); err != nil || !ok {
		t.Fatalf("TryLock h1 after UnlockAll: ok=%v err=%v", ok, err)
	}
	if ok, err := s.TryLock(ctx, h2); err != nil || !ok {
		t.Fatalf("TryLock h2 after UnlockAll: ok=%v err=%v", ok, err)
	}
}
