// Package dispatch fans committed chain tips out to registered event
// observers. Each observer subscribes to a set of event-key patterns;
// Dispatch builds a dispatch matrix over the block's flattened event
// stream and delivers one filtered JSON payload per observer with a
// non-empty row (spec §4.4, grounded on the dispatch_matrix algorithm in
// testnet/src/event_dispatcher.rs).
package dispatch
