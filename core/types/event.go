package types

import "encoding/json"

// ContractID identifies a deployed smart contract, e.g.
// "SP000000000000000000002Q6VF78.pox-2". The format is owned by the
// contract-identifier codec this layer doesn't implement; it is treated
// here as an opaque, comparable string so it can key a map.
type ContractID string

// AssetID identifies a fungible or non-fungible token type, e.g.
// "SP000...pox::pox-reward-cycle". Opaque and comparable, same as ContractID.
type AssetID string

// EventKind closes the set of event shapes the dispatcher's pattern
// matching understands (spec §4.4).
type EventKind int

const (
	EventSmartContract EventKind = iota
	EventStxTransfer
	EventStxMint
	EventStxBurn
	EventNftTransfer
	EventNftMint
	EventFtTransfer
	EventFtMint
)

// IsStx reports whether kind is one of the three native-token event shapes
// the StxEvent pattern matches unconditionally.
func (k EventKind) IsStx() bool {
	return k == EventStxTransfer || k == EventStxMint || k == EventStxBurn
}

// IsAsset reports whether kind carries an AssetID the AssetEvent pattern
// can match against.
func (k EventKind) IsAsset() bool {
	switch k {
	case EventNftTransfer, EventNftMint, EventFtTransfer, EventFtMint:
		return true
	default:
		return false
	}
}

// Event is one transaction-emitted event. Kind selects which of
// ContractID/Topic or AssetID is populated; JSON is the codec-rendered
// per-event JSON object the wire format embeds verbatim (spec §6).
type Event struct {
	Kind       EventKind
	ContractID ContractID // set iff Kind == EventSmartContract
	Topic      string     // set iff Kind == EventSmartContract
	AssetID    AssetID    // set iff Kind.IsAsset()
	JSON       json.RawMessage
}
