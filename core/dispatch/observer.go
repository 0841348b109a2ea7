package dispatch

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/blockstack-chain/marf-store/core/types"
	"github.com/blockstack-chain/marf-store/marferr"
)

// dialTimeout bounds how long send waits to connect before giving up;
// spec §4.4 treats delivery as best-effort, fire-and-forget, so a hung
// dial must not stall the dispatcher indefinitely.
const dialTimeout = 5 * time.Second

// indexedEvent pairs one emitted event with the id of the transaction
// that emitted it, the unit the dispatch matrix selects by position.
type indexedEvent struct {
	txid  types.Txid
	event types.Event
}

// observer is a registered subscriber: its delivery endpoint, the
// stable index Dispatcher assigned it at registration time, and an
// optional AdvancedFilter layered on top of its pattern-set match.
type observer struct {
	index    uint16
	endpoint string
	filter   *AdvancedFilter
}

type wireTransaction struct {
	Txid         string          `json:"txid"`
	TxIndex      uint32          `json:"tx_index"`
	Success      bool            `json:"success"`
	RawResult    string          `json:"raw_result"`
	RawTx        string          `json:"raw_tx"`
	ContractABI json.RawMessage `json:"contract_abi"`
}

type wirePayload struct {
	BlockHash           string            `json:"block_hash"`
	BlockHeight         uint64            `json:"block_height"`
	IndexBlockHash      string            `json:"index_block_hash"`
	ParentBlockHash     string            `json:"parent_block_hash"`
	ParentMicroblock    string            `json:"parent_microblock"`
	Events              []json.RawMessage `json:"events"`
	Transactions        []wireTransaction `json:"transactions"`
}

// send connects to the observer's endpoint and writes the wire payload
// for filteredEvents (already matrix-selected for this observer, in
// block position order) plus tip's full transaction list and metadata
// (spec §4.4 step 3, §6 wire format).
func (o *observer) send(filteredEvents []indexedEvent, tip types.ChainTip) error {
	events := make([]json.RawMessage, 0, len(filteredEvents))
	for _, fe := range filteredEvents {
		events = append(events, fe.event.JSON)
	}

	txs := make([]wireTransaction, len(tip.Receipts))
	for i, receipt := range tip.Receipts {
		if receipt.Result == nil {
			// Guarded by Dispatch before send is ever called; defensive
			// only against a future caller bypassing that check.
			return marferr.Wrap(marferr.DeliveryFailure, "send: receipt missing response result", nil)
		}
		abi := json.RawMessage("null")
		if receipt.ContractAnalysis != nil {
			encoded, err := json.Marshal(receipt.ContractAnalysis.ABI)
			if err != nil {
				return marferr.Wrap(marferr.DeliveryFailure, "send: encode contract_abi", err)
			}
			abi = encoded
		}
		txs[i] = wireTransaction{
			Txid:        receipt.Transaction.Txid.Hex(),
			TxIndex:     uint32(i),
			Success:     receipt.Result.Committed,
			RawResult:   hexutil.Encode(receipt.Result.Data),
			RawTx:       hexutil.Encode(receipt.Transaction.RawBody),
			ContractABI: abi,
		}
	}

	payload := wirePayload{
		BlockHash:        tip.Metadata.BlockHash.Hex(),
		BlockHeight:      tip.Metadata.BlockHeight,
		IndexBlockHash:   tip.Metadata.IndexBlockHash.Hex(),
		ParentBlockHash:  tip.Metadata.ParentBlockHash.Hex(),
		ParentMicroblock: tip.Metadata.ParentMicroblockHash.Hex(),
		Events:           events,
		Transactions:     txs,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return marferr.Wrap(marferr.DeliveryFailure, "send: encode payload", err)
	}

	conn, err := net.DialTimeout("tcp", o.endpoint, dialTimeout)
	if err != nil {
		return marferr.Wrap(marferr.DeliveryFailure, fmt.Sprintf("send: dial %s", o.endpoint), err)
	}
	defer conn.Close()

	log.Debug("dispatching event payload", "observer", o.endpoint, "events", len(events), "transactions", len(txs))
	if _, err := conn.Write(body); err != nil {
		return marferr.Wrap(marferr.DeliveryFailure, fmt.Sprintf("send: write to %s", o.endpoint), err)
	}
	return nil
}
