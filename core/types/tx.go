package types

// Txid is the 32-byte transaction identifier.
type Txid [32]byte

func (t Txid) Hex() string { return BlockHash(t).Hex() }

// TxResult is a transaction's outcome. Every completed transaction must
// produce a response variant (spec §4.4 edge policies); Committed records
// whether the inner value represents success (true) or a rolled-back abort
// (false), and Data is the consensus-serialized inner value.
type TxResult struct {
	Committed bool
	Data      []byte
}

// ContractAnalysis is present on a contract-publish transaction's receipt
// and is the source of the wire format's contract_abi field. A nil
// analysis serializes to JSON null (spec §4.4 edge policies).
type ContractAnalysis struct {
	// ABI is the pre-rendered contract interface document, built by the
	// (external) Clarity analyzer. It is opaque to this layer.
	ABI map[string]interface{}
}

// Transaction is the minimal envelope this layer needs from a transaction:
// its id and its consensus-serialized bytes. Everything else (arguments,
// post-conditions, signatures) belongs to the transaction codec, which is
// as external to this layer as the trie codec is.
type Transaction struct {
	Txid    Txid
	RawBody []byte
}

// Receipt is one transaction's outcome within a block: the transaction
// itself, its result (required to be a response variant), its emitted
// events in order, and an optional contract analysis.
type Receipt struct {
	Transaction      Transaction
	Result           *TxResult // nil is a protocol-level invariant violation (spec §4.4)
	Events           []Event
	ContractAnalysis *ContractAnalysis
}

// ChainTip is the result of applying a block: its metadata plus its
// ordered receipts (spec §4.4, GLOSSARY).
type ChainTip struct {
	Metadata BlockMetadata
	Receipts []Receipt
}
