package dispatch

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"

	"github.com/blockstack-chain/marf-store/core/types"
	"github.com/blockstack-chain/marf-store/marferr"
)

// Dispatcher holds the registered observers and the reverse pattern
// indices Dispatch consults on every chain tip. It is not internally
// concurrent: callers are expected to invoke Dispatch from the single
// chain-processing thread that also calls BlobStore.Insert, matching the
// commit order (spec §5 ordering guarantee 3).
type Dispatcher struct {
	mu        sync.RWMutex
	observers []*observer

	contractLookup map[contractTopicKey]map[uint16]struct{}
	assetLookup    map[types.AssetID]map[uint16]struct{}
	stxLookup      map[uint16]struct{}
	anyLookup      map[uint16]struct{}

	tipFeed event.Feed
	scope   event.SubscriptionScope
}

// New returns an empty Dispatcher with no registered observers.
func New() *Dispatcher {
	return &Dispatcher{
		contractLookup: make(map[contractTopicKey]map[uint16]struct{}),
		assetLookup:    make(map[types.AssetID]map[uint16]struct{}),
		stxLookup:      make(map[uint16]struct{}),
		anyLookup:      make(map[uint16]struct{}),
	}
}

// RegisterObserver adds endpoint as a subscriber matching every pattern
// in keys, assigning it the next dense 16-bit index (spec §4.4
// "Registration assigns each observer a stable 16-bit dense index").
// Indexes are insertion-ordered and never reused. filterExpr, if
// non-empty, is compiled into an AdvancedFilter consulted in addition to
// (never instead of) the pattern-set match (SPEC_FULL §3).
func (d *Dispatcher) RegisterObserver(endpoint string, keys []Key, filterExpr string) (uint16, error) {
	var filter *AdvancedFilter
	if filterExpr != "" {
		compiled, err := NewAdvancedFilter(filterExpr)
		if err != nil {
			return 0, err
		}
		filter = compiled
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	index := uint16(len(d.observers))
	d.observers = append(d.observers, &observer{index: index, endpoint: endpoint, filter: filter})

	for _, key := range keys {
		switch key.Kind {
		case KeySmartContractEvent:
			ctKey := contractTopicKey{contractID: key.ContractID, topic: key.Topic}
			if d.contractLookup[ctKey] == nil {
				d.contractLookup[ctKey] = make(map[uint16]struct{})
			}
			d.contractLookup[ctKey][index] = struct{}{}
		case KeyStxEvent:
			d.stxLookup[index] = struct{}{}
		case KeyAssetEvent:
			if d.assetLookup[key.AssetID] == nil {
				d.assetLookup[key.AssetID] = make(map[uint16]struct{})
			}
			d.assetLookup[key.AssetID][index] = struct{}{}
		case KeyAnyEvent:
			d.anyLookup[index] = struct{}{}
		}
	}

	log.Info("registered event observer", "endpoint", endpoint, "index", index, "patterns", len(keys), "advanced_filter", filterExpr != "")
	return index, nil
}

// SubscribeChainTips lets in-process consumers observe every chain tip
// Dispatch processes, independent of the
// pattern-filtered TCP fan-out (SPEC_FULL §3 domain-stack wiring for
// go-ethereum's event package).
func (d *Dispatcher) SubscribeChainTips(ch chan<- types.ChainTip) event.Subscription {
	return d.scope.Track(d.tipFeed.Subscribe(ch))
}

// Close tears down every tracked internal subscription.
func (d *Dispatcher) Close() {
	d.scope.Close()
}

// ObserverInfo is the subset of a registered observer's state safe to
// expose over the admin API: its index and delivery endpoint, never any
// event payload it may have received.
type ObserverInfo struct {
	Index    uint16
	Endpoint string
}

// ListObservers returns every registered observer's index and endpoint, in
// registration order.
func (d *Dispatcher) ListObservers() []ObserverInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]ObserverInfo, len(d.observers))
	for i, o := range d.observers {
		out[i] = ObserverInfo{Index: o.index, Endpoint: o.endpoint}
	}
	return out
}

// Dispatch runs the dispatch algorithm over tip (spec §4.4 steps 1-4):
// it flattens tip's receipts into a position-ordered event stream,
// builds a per-observer set of matching positions via the bucketed
// pattern lookups, then delivers one payload per observer with a
// non-empty row. It returns an error without contacting any observer if
// any receipt's result is missing (spec §4.4 edge policy, §8 property
// 7); per-observer delivery failures are logged and do not abort the
// rest of the fan-out (spec §7 DeliveryFailure policy).
func (d *Dispatcher) Dispatch(tip types.ChainTip) error {
	for _, receipt := range tip.Receipts {
		if receipt.Result == nil {
			return marferr.Wrap(marferr.Corruption, "dispatch: receipt missing response result", nil)
		}
	}

	d.mu.RLock()
	observers := d.observers

	matrix := make([]map[int]struct{}, len(observers))
	for i := range matrix {
		matrix[i] = make(map[int]struct{})
	}

	var stream []indexedEvent
	pos := 0
	for _, receipt := range tip.Receipts {
		for _, ev := range receipt.Events {
			switch {
			case ev.Kind == types.EventSmartContract:
				ctKey := contractTopicKey{contractID: ev.ContractID, topic: ev.Topic}
				for oi := range d.contractLookup[ctKey] {
					matrix[oi][pos] = struct{}{}
				}
			case ev.Kind.IsStx():
				for oi := range d.stxLookup {
					matrix[oi][pos] = struct{}{}
				}
			case ev.Kind.IsAsset():
				for oi := range d.assetLookup[ev.AssetID] {
					matrix[oi][pos] = struct{}{}
				}
			}
			for oi := range d.anyLookup {
				matrix[oi][pos] = struct{}{}
			}
			stream = append(stream, indexedEvent{txid: receipt.Transaction.Txid, event: ev})
			pos++
		}
	}
	d.mu.RUnlock()

	for oi, positions := range matrix {
		if len(positions) == 0 {
			continue
		}
		o := observers[oi]
		filtered := make([]indexedEvent, 0, len(positions))
		for i := 0; i < len(stream); i++ {
			if _, ok := positions[i]; !ok {
				continue
			}
			if o.filter != nil {
				matches, err := o.filter.Matches(stream[i].event)
				if err != nil {
					log.Error("advanced filter evaluation failed", "observer", o.endpoint, "err", err)
					continue
				}
				if !matches {
					continue
				}
			}
			filtered = append(filtered, stream[i])
		}
		if len(filtered) == 0 {
			continue
		}
		if err := o.send(filtered, tip); err != nil {
			log.Error("event dispatch failed", "observer", o.endpoint, "err", err)
		}
	}

	d.tipFeed.Send(tip)
	return nil
}
