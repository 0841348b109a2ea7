package dispatch

import (
	"testing"

	"github.com/blockstack-chain/marf-store/core/types"
)

func TestAdvancedFilterMatches(t *testing.T) {
	f, err := NewAdvancedFilter(`contract_id == "contract-c" and topic == "topic-t"`)
	if err != nil {
		t.Fatalf("NewAdvancedFilter: %v", err)
	}

	match := types.Event{Kind: types.EventSmartContract, ContractID: "contract-c", Topic: "topic-t"}
	ok, err := f.Matches(match)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if !ok {
		t.Fatal("expected matching event to satisfy filter")
	}

	nonMatch := types.Event{Kind: types.EventSmartContract, ContractID: "contract-c", Topic: "topic-other"}
	ok, err = f.Matches(nonMatch)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if ok {
		t.Fatal("expected non-matching event to fail filter")
	}
}

func TestAdvancedFilterCompileError(t *testing.T) {
	if _, err := NewAdvancedFilter(`this is not an expression (`); err == nil {
		t.Fatal("NewAdvancedFilter with invalid expression returned nil error")
	}
}
