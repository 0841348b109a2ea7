package dispatch

import "github.com/blockstack-chain/marf-store/core/types"

// KeyKind closes the set of subscription patterns an observer may
// register (spec §4.4).
type KeyKind int

const (
	// KeySmartContractEvent matches a smart-contract event whose
	// (contract, topic) equals ContractID/Topic exactly.
	KeySmartContractEvent KeyKind = iota
	// KeyStxEvent matches any native-token transfer/mint/burn.
	KeyStxEvent
	// KeyAssetEvent matches a fungible or non-fungible transfer/mint whose
	// asset id equals AssetID exactly.
	KeyAssetEvent
	// KeyAnyEvent matches every event unconditionally.
	KeyAnyEvent
)

// Key is one subscription pattern. ContractID/Topic are set iff Kind ==
// KeySmartContractEvent; AssetID is set iff Kind == KeyAssetEvent.
type Key struct {
	Kind       KeyKind
	ContractID types.ContractID
	Topic      string
	AssetID    types.AssetID
}

// SmartContractKey builds a KeySmartContractEvent pattern.
func SmartContractKey(contractID types.ContractID, topic string) Key {
	return Key{Kind: KeySmartContractEvent, ContractID: contractID, Topic: topic}
}

// AssetKey builds a KeyAssetEvent pattern.
func AssetKey(assetID types.AssetID) Key {
	return Key{Kind: KeyAssetEvent, AssetID: assetID}
}

// StxKey is the StxEvent pattern.
func StxKey() Key { return Key{Kind: KeyStxEvent} }

// AnyKey is the AnyEvent pattern.
func AnyKey() Key { return Key{Kind: KeyAnyEvent} }

// contractTopicKey is the map key contract-event reverse lookups are
// bucketed under.
type contractTopicKey struct {
	contractID types.ContractID
	topic      string
}
