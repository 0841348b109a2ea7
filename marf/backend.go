// Package marf wires storage/sqlstore and core/dispatch together into the
// single service marfd runs, following the shape of mive/backend.go's Mive
// type minus the node.Lifecycle registration this store has no use for
// (there is no p2p/account-manager subsystem to share a Start/Stop
// sequence with).
package marf

import (
	"context"

	"github.com/ethereum/go-ethereum/log"

	"github.com/blockstack-chain/marf-store/core/dispatch"
	"github.com/blockstack-chain/marf-store/marfconfig"
	"github.com/blockstack-chain/marf-store/storage/sqlstore"
	"github.com/blockstack-chain/marf-store/triecodec"
)

// Store is the MARF persistent storage and event dispatch service: a
// sqlstore-backed blob/index/lock store plus the observer fan-out wired to
// every committed chain tip.
type Store struct {
	config *marfconfig.Config

	db       *sqlstore.Store
	Dispatch *dispatch.Dispatcher
}

// Open opens the on-disk store rooted at config.DataDir, recovers from an
// unclean prior shutdown if one is detected, and registers the observers
// named in config.Observers. codec is the trie node codec sqlstore uses to
// decode root pointers and node hashes out of stored blobs (SPEC_FULL §1).
func Open(config *marfconfig.Config, codec triecodec.Codec) (*Store, error) {
	db, err := sqlstore.Open(config.DataDir, config.DBFile, codec)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	unclean, err := db.WasUncleanShutdown(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if unclean {
		log.Warn("recovering from unclean shutdown, releasing all extension locks")
		if err := db.UnlockAll(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := db.MarkStartup(ctx); err != nil {
		db.Close()
		return nil, err
	}

	disp := dispatch.New()
	for _, oc := range config.Observers {
		keys, err := oc.Keys()
		if err != nil {
			db.Close()
			return nil, err
		}
		if _, err := disp.RegisterObserver(oc.Endpoint, keys, oc.Filter); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("registered event observer", "endpoint", oc.Endpoint, "events", len(keys))
	}

	return &Store{
		config:   config,
		db:       db,
		Dispatch: disp,
	}, nil
}

// DB returns the underlying sqlstore, for callers that need direct blob,
// index or extension-lock access (the admin API's read_all_roots debug
// endpoint, cmd/marfd's inspect-roots and unlock-all verbs).
func (s *Store) DB() *sqlstore.Store {
	return s.db
}

// Close marks the store cleanly shut down, releases the event dispatcher's
// subscriptions, and closes the database connection. Order matters: the
// clean marker is written before the connection it depends on is closed.
func (s *Store) Close() error {
	ctx := context.Background()
	if err := s.db.MarkClean(ctx); err != nil {
		log.Error("failed to record clean shutdown", "error", err)
	}
	s.Dispatch.Close()
	return s.db.Close()
}
