// Package admin implements the optional HTTP API marfd exposes for
// runtime observer registration and read-only storage inspection
// (SPEC_FULL §4 items 3-4). It is off by default; operators who don't
// need runtime registration keep using the static config-file observer
// list and never start it.
package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/log"
	"github.com/rs/cors"

	"github.com/blockstack-chain/marf-store/core/dispatch"
	"github.com/blockstack-chain/marf-store/marfconfig"
	"github.com/blockstack-chain/marf-store/storage/sqlstore"
)

// Server is the admin API's dependencies: the live dispatcher observer
// registrations are applied to, and the store its debug endpoints read
// from.
type Server struct {
	dispatcher *dispatch.Dispatcher
	db         *sqlstore.Store
	cfg        marfconfig.AdminConfig
}

// NewServer returns a Server ready to build a Handler from.
func NewServer(dispatcher *dispatch.Dispatcher, db *sqlstore.Store, cfg marfconfig.AdminConfig) *Server {
	return &Server{dispatcher: dispatcher, db: db, cfg: cfg}
}

// Handler builds the full admin API handler: routing, JWT bearer auth, and
// CORS, in that wrapping order (CORS is outermost, so preflight requests
// are answered before auth runs).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/observers", s.handleObservers)
	mux.HandleFunc("/v1/debug/roots", s.handleDebugRoots)

	var h http.Handler = mux
	if s.cfg.JWTSecret != "" {
		h = requireBearer([]byte(s.cfg.JWTSecret), h)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(h)
}

type registerObserverRequest struct {
	Endpoint string   `json:"endpoint"`
	Events   []string `json:"events"`
	Filter   string   `json:"filter,omitempty"`
}

type registerObserverResponse struct {
	Index uint16 `json:"index"`
}

func (s *Server) handleObservers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listObservers(w, r)
	case http.MethodPost:
		s.registerObserver(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// listObservers reports only each observer's index and delivery endpoint
// (SPEC_FULL §4 item 3): neither its patterns nor any recorded events.
func (s *Server) listObservers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.ListObservers())
}

func (s *Server) registerObserver(w http.ResponseWriter, r *http.Request) {
	var req registerObserverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Endpoint == "" {
		http.Error(w, "endpoint is required", http.StatusBadRequest)
		return
	}

	oc := marfconfig.ObserverConfig{Endpoint: req.Endpoint, Events: req.Events, Filter: req.Filter}
	keys, err := oc.Keys()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	index, err := s.dispatcher.RegisterObserver(req.Endpoint, keys, req.Filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Info("admin API registered observer", "endpoint", req.Endpoint, "index", index)
	writeJSON(w, http.StatusCreated, registerObserverResponse{Index: index})
}

// handleDebugRoots exposes read_all_roots (spec.md §4, SPEC_FULL §4 item 2)
// for operational inspection: confirming a block actually committed, or
// diagnosing a corruption report.
func (s *Server) handleDebugRoots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	roots, err := s.db.ReadAllRoots(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type root struct {
		BlockHash string `json:"block_hash"`
		TrieHash  string `json:"trie_root_hash"`
	}
	out := make([]root, len(roots))
	for i, rt := range roots {
		out[i] = root{BlockHash: rt.BlockHash.Hex(), TrieHash: hexTrieHash(rt.TrieHash)}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe runs the admin API until ctx is canceled.
func ListenAndServe(ctx context.Context, cfg marfconfig.AdminConfig, dispatcher *dispatch.Dispatcher, db *sqlstore.Store) error {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: NewServer(dispatcher, db, cfg).Handler(),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
