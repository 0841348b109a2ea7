package dispatch

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/blockstack-chain/marf-store/core/types"
)

// testObserverServer accepts connections until the test ends, decodes the
// single JSON object written to each, and reports it on received.
type testObserverServer struct {
	listener net.Listener
	received chan wirePayload
}

func startTestObserverServer(t *testing.T) *testObserverServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &testObserverServer{listener: ln, received: make(chan wirePayload, 8)}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				var payload wirePayload
				if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&payload); err == nil {
					srv.received <- payload
				}
			}()
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return srv
}

func (s *testObserverServer) endpoint() string { return s.listener.Addr().String() }

func (s *testObserverServer) awaitPayload(t *testing.T) wirePayload {
	t.Helper()
	select {
	case p := <-s.received:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for observer payload")
		return wirePayload{}
	}
}

func rawEvent(label string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"label": label})
	return b
}

func simpleTip(receipts []types.Receipt) types.ChainTip {
	return types.ChainTip{
		Metadata: types.BlockMetadata{BlockHeight: 1},
		Receipts: receipts,
	}
}

func committedReceipt(txid byte, events ...types.Event) types.Receipt {
	var t types.Txid
	t[0] = txid
	return types.Receipt{
		Transaction: types.Transaction{Txid: t},
		Result:      &types.TxResult{Committed: true},
		Events:      events,
	}
}

func TestDispatchFanOut(t *testing.T) {
	srvAny := startTestObserverServer(t)
	srvAsset := startTestObserverServer(t)
	srvContract := startTestObserverServer(t)

	d := New()
	if _, err := d.RegisterObserver(srvAny.endpoint(), []Key{AnyKey()}, ""); err != nil {
		t.Fatalf("register any: %v", err)
	}
	if _, err := d.RegisterObserver(srvAsset.endpoint(), []Key{AssetKey("asset-a")}, ""); err != nil {
		t.Fatalf("register asset: %v", err)
	}
	if _, err := d.RegisterObserver(srvContract.endpoint(), []Key{SmartContractKey("contract-c", "topic-t")}, ""); err != nil {
		t.Fatalf("register contract: %v", err)
	}

	receipt := committedReceipt(1,
		types.Event{Kind: types.EventStxTransfer, JSON: rawEvent("stx_transfer")},
		types.Event{Kind: types.EventNftTransfer, AssetID: "asset-a", JSON: rawEvent("nft_transfer")},
		types.Event{Kind: types.EventSmartContract, ContractID: "contract-c", Topic: "topic-t", JSON: rawEvent("contract1")},
		types.Event{Kind: types.EventSmartContract, ContractID: "contract-c", Topic: "topic-other", JSON: rawEvent("contract2")},
	)
	tip := simpleTip([]types.Receipt{receipt})

	if err := d.Dispatch(tip); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	anyPayload := srvAny.awaitPayload(t)
	if len(anyPayload.Events) != 4 {
		t.Fatalf("AnyEvent observer got %d events, want 4", len(anyPayload.Events))
	}

	assetPayload := srvAsset.awaitPayload(t)
	if len(assetPayload.Events) != 1 {
		t.Fatalf("AssetEvent observer got %d events, want 1", len(assetPayload.Events))
	}

	contractPayload := srvContract.awaitPayload(t)
	if len(contractPayload.Events) != 1 {
		t.Fatalf("SmartContractEvent observer got %d events, want 1", len(contractPayload.Events))
	}
}

func TestDispatchAbortsOnMissingResult(t *testing.T) {
	srv := startTestObserverServer(t)
	d := New()
	if _, err := d.RegisterObserver(srv.endpoint(), []Key{AnyKey()}, ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	badReceipt := types.Receipt{
		Transaction: types.Transaction{},
		Result:      nil,
		Events:      []types.Event{{Kind: types.EventStxTransfer, JSON: rawEvent("x")}},
	}
	tip := simpleTip([]types.Receipt{badReceipt})

	if err := d.Dispatch(tip); err == nil {
		t.Fatal("Dispatch with a missing result returned nil error, want non-nil")
	}

	select {
	case p := <-srv.received:
		t.Fatalf("observer was contacted despite aborted dispatch: %+v", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestDispatchNoEmptyPayloadHeartbeat(t *testing.T) {
	srv := startTestObserverServer(t)
	d := New()
	if _, err := d.RegisterObserver(srv.endpoint(), []Key{AssetKey("asset-z")}, ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	receipt := committedReceipt(1, types.Event{Kind: types.EventStxTransfer, JSON: rawEvent("unrelated")})
	if err := d.Dispatch(simpleTip([]types.Receipt{receipt})); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	select {
	case p := <-srv.received:
		t.Fatalf("observer with empty row was contacted: %+v", p)
	case <-time.After(200 * time.Millisecond):
	}
}
