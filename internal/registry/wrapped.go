package registry

// Canonical wrapped-native token contracts by chain ID.
// The route layer substitutes these for the chain's native currency at path boundaries.
// Chain 30 is the deployed WRBTC. Routes whose pools hold another wrapped address, such as
// 0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2 in fixtures, override it with WrappedNative.With,
// the wrapped_native config key or a route document's wrapped_native field.
var wrappedNativeByChainID = map[int64]struct {
	Address string
	Symbol  string
	Name    string
}{
	1:      {Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Name: "Wrapped Ether"},
	10:     {Address: "0x4200000000000000000000000000000000000006", Symbol: "WETH", Name: "Wrapped Ether"},
	30:     {Address: "0x542fDA317318eBF1d3DEAf76E0b632741A7e677d", Symbol: "WRBTC", Name: "Wrapped RBTC"},
	56:     {Address: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", Symbol: "WBNB", Name: "Wrapped BNB"},
	137:    {Address: "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", Symbol: "WPOL", Name: "Wrapped POL"},
	8453:   {Address: "0x4200000000000000000000000000000000000006", Symbol: "WETH", Name: "Wrapped Ether"},
	42161:  {Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Symbol: "WETH", Name: "Wrapped Ether"},
	43114:  {Address: "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", Symbol: "WAVAX", Name: "Wrapped AVAX"},
	167000: {Address: "0xA51894664A773981C6C112C43ce576f315d5b1B6", Symbol: "WETH", Name: "Wrapped Ether"},
}

func WrappedNative(chainID int64) (address, symbol, name string, ok bool) {
	w, ok := wrappedNativeByChainID[chainID]
	if !ok {
		return "", "", "", false
	}
	return w.Address, w.Symbol, w.Name, true
}

// WrappedNativeChainIDs lists every chain with a wrapped-native default.
func WrappedNativeChainIDs() []int64 {
	out := make([]int64, 0, len(wrappedNativeByChainID))
	for id := range wrappedNativeByChainID {
		out = append(out, id)
	}
	return out
}
