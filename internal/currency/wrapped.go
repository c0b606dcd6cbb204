package currency

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/swaprouter/internal/registry"
)

// WrappedNative maps a chain ID to the token that wraps that chain's native currency.
// Tables are read-only once handed to a route.
type WrappedNative map[int64]Currency

func (w WrappedNative) Lookup(chainID int64) (Currency, bool) {
	c, ok := w[chainID]
	return c, ok
}

// With returns a copy of w with chainID mapped to address.
func (w WrappedNative) With(chainID int64, address common.Address) WrappedNative {
	out := make(WrappedNative, len(w)+1)
	for k, v := range w {
		out[k] = v
	}
	prev, ok := w[chainID]
	symbol, name := "WNATIVE", "Wrapped Native"
	if ok {
		symbol, name = prev.Symbol, prev.Name
	}
	out[chainID] = NewToken(chainID, address, defaultDecimals, symbol, name)
	return out
}

// DefaultWrappedNative builds the table from the registry defaults.
func DefaultWrappedNative() WrappedNative {
	ids := registry.WrappedNativeChainIDs()
	out := make(WrappedNative, len(ids))
	for _, id := range ids {
		addr, symbol, name, _ := registry.WrappedNative(id)
		out[id] = NewToken(id, common.HexToAddress(addr), defaultDecimals, symbol, name)
	}
	return out
}
