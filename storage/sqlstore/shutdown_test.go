package sqlstore

import (
	"context"
	"testing"
)

func TestShutdownTrackerLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	unclean, err := s.WasUncleanShutdown(ctx)
	if err != nil {
		t.Fatalf("WasUncleanShutdown (no marker yet): %v", err)
	}
	if unclean {
		t.Fatalf("WasUncleanShutdown = true before any MarkStartup, want false")
	}

	if err := s.MarkStartup(ctx); err != nil {
		t.Fatalf("MarkStartup: %v", err)
	}
	unclean, err = s.WasUncleanShutdown(ctx)
	if err != nil {
		t.Fatalf("WasUncleanShutdown (after MarkStartup): %v", err)
	}
	if !unclean {
		t.Fatalf("WasUncleanShutdown = false after MarkStartup with no MarkClean, want true")
	}

	if err := s.MarkClean(ctx); err != nil {
		t.Fatalf("MarkClean: %v", err)
	}
	unclean, err = s.WasUncleanShutdown(ctx)
	if err != nil {
		t.Fatalf("WasUncleanShutdown (after MarkClean): %v", err)
	}
	if unclean {
		t.Fatalf("WasUncleanShutdown = true after MarkClean, want false")
	}
}
