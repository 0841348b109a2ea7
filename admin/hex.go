package admin

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/blockstack-chain/marf-store/triecodec"
)

func hexTrieHash(h triecodec.Hash) string {
	return hexutil.Encode(h[:])
}
