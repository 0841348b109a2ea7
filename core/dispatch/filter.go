package dispatch

import (
	"github.com/hashicorp/go-bexpr"

	"github.com/blockstack-chain/marf-store/core/types"
	"github.com/blockstack-chain/marf-store/marferr"
)

// filterRecord is the flattened view of an event an AdvancedFilter
// expression evaluates against.
type filterRecord struct {
	Kind       string `bexpr:"kind"`
	ContractID string `bexpr:"contract_id"`
	Topic      string `bexpr:"topic"`
	AssetID    string `bexpr:"asset_id"`
}

var eventKindNames = map[types.EventKind]string{
	types.EventSmartContract: "smart_contract",
	types.EventStxTransfer:   "stx_transfer",
	types.EventStxMint:       "stx_mint",
	types.EventStxBurn:       "stx_burn",
	types.EventNftTransfer:   "nft_transfer",
	types.EventNftMint:       "nft_mint",
	types.EventFtTransfer:    "ft_transfer",
	types.EventFtMint:        "ft_mint",
}

func toFilterRecord(ev types.Event) filterRecord {
	return filterRecord{
		Kind:       eventKindNames[ev.Kind],
		ContractID: string(ev.ContractID),
		Topic:      ev.Topic,
		AssetID:    string(ev.AssetID),
	}
}

// AdvancedFilter is an optional, opt-in refinement an observer may layer
// on top of its closed pattern-set subscription (SPEC_FULL §3): a
// boolean expression over a flattened event record, e.g.
// `contract_id == "SP000...pox-2" and topic contains "reward"`. It never
// replaces the pattern-set match spec §4.4 requires — an event must
// already be selected by the dispatch matrix before the filter is
// consulted.
type AdvancedFilter struct {
	eval *bexpr.Evaluator
}

// NewAdvancedFilter compiles expression once at registration time so
// Matches never re-parses it.
func NewAdvancedFilter(expression string) (*AdvancedFilter, error) {
	eval, err := bexpr.CreateEvaluator(expression)
	if err != nil {
		return nil, marferr.Wrap(marferr.Backend, "advanced_filter: compile expression", err)
	}
	return &AdvancedFilter{eval: eval}, nil
}

// Matches reports whether ev satisfies the compiled expression.
func (f *AdvancedFilter) Matches(ev types.Event) (bool, error) {
	ok, err := f.eval.Evaluate(toFilterRecord(ev))
	if err != nil {
		return false, marferr.Wrap(marferr.Backend, "advanced_filter: evaluate", err)
	}
	return ok, nil
}
