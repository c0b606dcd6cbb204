package model

import "time"

const EnvelopeVersion = "v1"

type Envelope struct {
	Version  string       `json:"version"`
	Success  bool         `json:"success"`
	Data     any          `json:"data,omitempty"`
	Error    *ErrorBody   `json:"error"`
	Warnings []string     `json:"warnings,omitempty"`
	Meta     EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EnvelopeMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	// Source is where the route came from: a file path or "routebook:<name>".
	Source string `json:"source,omitempty"`
}

type CurrencyInfo struct {
	Symbol   string `json:"symbol,omitempty"`
	Address  string `json:"address,omitempty"`
	Decimals int    `json:"decimals"`
	Native   bool   `json:"native"`
}

type HopInfo struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Token0   string `json:"token0"`
	Token1   string `json:"token1"`
	Fee      uint32 `json:"fee,omitempty"`
	Reserve0 string `json:"reserve0,omitempty"`
	Reserve1 string `json:"reserve1,omitempty"`
	// SqrtPriceX96 is set for concentrated-liquidity hops.
	SqrtPriceX96 string `json:"sqrt_price_x96,omitempty"`
}

type PriceInfo struct {
	Base        string `json:"base"`
	Quote       string `json:"quote"`
	Fixed       string `json:"fixed"`
	Significant string `json:"significant"`
	Raw         string `json:"raw"`
	Inverted    bool   `json:"inverted,omitempty"`
}

type RouteSummary struct {
	Name        string         `json:"name,omitempty"`
	Protocol    string         `json:"protocol"`
	ChainID     int64          `json:"chain_id"`
	Chain       string         `json:"chain"`
	Input       CurrencyInfo   `json:"input"`
	Output      CurrencyInfo   `json:"output"`
	Path        []CurrencyInfo `json:"path"`
	Hops        []HopInfo      `json:"hops"`
	MidPrice    PriceInfo      `json:"mid_price"`
	EncodedPath string         `json:"encoded_path"`
}

type EncodedPath struct {
	Format      string `json:"format"`
	ExactOutput bool   `json:"exact_output"`
	Hops        int    `json:"hops"`
	Bytes       int    `json:"bytes"`
	Path        string `json:"path"`
}

type DecodedHop struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Fee      uint32 `json:"fee,omitempty"`
	FeeKnown bool   `json:"fee_known,omitempty"`
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
}

type DecodedPath struct {
	Bytes  int          `json:"bytes"`
	Tokens []string     `json:"tokens"`
	Hops   []DecodedHop `json:"hops"`
}

type Calldata struct {
	Method   string `json:"method"`
	Selector string `json:"selector"`
	Calldata string `json:"calldata"`
	ChainID  int64  `json:"chain_id,omitempty"`
	// To is the swap router for the chain, when one is registered.
	To string `json:"to,omitempty"`
}

type ChainInfo struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	ChainID       int64  `json:"chain_id"`
	CAIP2         string `json:"caip2"`
	NativeSymbol  string `json:"native_symbol"`
	WrappedNative string `json:"wrapped_native,omitempty"`
	SwapRouter    string `json:"swap_router,omitempty"`
}

type RouteBookEntry struct {
	Name      string `json:"name"`
	Chain     string `json:"chain"`
	Protocol  string `json:"protocol"`
	Hops      int    `json:"hops"`
	UpdatedAt string `json:"updated_at"`
}
