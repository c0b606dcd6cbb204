package registry

// Swap router deployments that accept mixed V2/V3 paths and the payments extension.
// Today this map includes Uniswap SwapRouter02 and Taiko deployments and can be extended chain-by-chain.
// Rootstock (30, 31) has no entry yet: the payments methods use the WRBTC names, but no router
// deployment is pinned here, so callers supply one through the swap_router config key.
var swapRouterByChainID = map[int64]string{
	1:      "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45",
	10:     "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45",
	137:    "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45",
	8453:   "0x2626664c2603336E57B271c5C0b26F421741e481",
	42161:  "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45",
	167000: "0x1A0c3a0Cfd1791FAC7798FA2b05208B66aaadfeD",
	167013: "0x482233e4DBD56853530fA1918157CE59B60dF230",
}

func SwapRouter(chainID int64) (string, bool) {
	value, ok := swapRouterByChainID[chainID]
	return value, ok
}
