// Package routedoc reads route descriptions written as YAML (or JSON) documents and builds
// routes from them.
package routedoc

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/pool"
	"github.com/ggonzalez94/swaprouter/internal/route"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"
)

const (
	ProtocolMixed = "mixed"
	ProtocolV2    = "v2"
	ProtocolV3    = "v3"
)

// Document describes a route: the chain, its endpoints, the tokens it touches and its hops.
//
//	chain: rootstock
//	input: native
//	output: t1
//	tokens:
//	  t1: {address: "0x...", decimals: 6, symbol: T1}
//	hops:
//	  - {kind: v3, tokens: [wrapped, t1], fee: medium, sqrt_price_x96: "79228162514264337593543950336"}
type Document struct {
	Chain    string `yaml:"chain" json:"chain"`
	Protocol string `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	Input    string `yaml:"input" json:"input"`
	Output   string `yaml:"output" json:"output"`
	// WrappedNative overrides the wrapped-native token address for this document's chain.
	WrappedNative string               `yaml:"wrapped_native,omitempty" json:"wrapped_native,omitempty"`
	Tokens        map[string]TokenSpec `yaml:"tokens,omitempty" json:"tokens,omitempty"`
	Hops          []HopSpec            `yaml:"hops" json:"hops"`
}

type TokenSpec struct {
	Address  string `yaml:"address" json:"address"`
	Decimals *int   `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	Symbol   string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
}

// HopSpec is one pair (kind v2, with reserves) or pool (kind v3, with fee and price).
// Reserves line up with Tokens.
type HopSpec struct {
	Kind         string     `yaml:"kind" json:"kind"`
	Tokens       []string   `yaml:"tokens" json:"tokens"`
	Reserves     []string   `yaml:"reserves,omitempty" json:"reserves,omitempty"`
	Fee          string     `yaml:"fee,omitempty" json:"fee,omitempty"`
	SqrtPriceX96 string     `yaml:"sqrt_price_x96,omitempty" json:"sqrt_price_x96,omitempty"`
	Price        *RatioSpec `yaml:"price,omitempty" json:"price,omitempty"`
	Liquidity    string     `yaml:"liquidity,omitempty" json:"liquidity,omitempty"`
	Tick         int        `yaml:"tick,omitempty" json:"tick,omitempty"`
}

// RatioSpec gives a pool price as amount1/amount0 in raw token units.
type RatioSpec struct {
	Amount0 string `yaml:"amount0" json:"amount0"`
	Amount1 string `yaml:"amount1" json:"amount1"`
}

func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "parse route document", err)
	}
	return &doc, nil
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "read route document", err)
	}
	return Parse(data)
}

func Marshal(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "marshal route document", err)
	}
	return data, nil
}

// Build constructs the route described by doc. wrapped supplies the chain → wrapped-native
// table; doc.WrappedNative, when set, overrides the entry for doc's chain. The result is a
// *route.V2Route, *route.V3Route or *route.MixedRoute depending on doc.Protocol.
func Build(doc *Document, wrapped currency.WrappedNative) (route.Route, error) {
	if doc == nil {
		return nil, clierr.New(clierr.CodeUsage, "route document is empty")
	}
	chain, err := currency.ParseChain(doc.Chain)
	if err != nil {
		return nil, err
	}
	if wrapped == nil {
		wrapped = currency.DefaultWrappedNative()
	}
	if strings.TrimSpace(doc.WrappedNative) != "" {
		addr, err := currency.ParseAddress(doc.WrappedNative)
		if err != nil {
			return nil, err
		}
		wrapped = wrapped.With(chain.ChainID, addr)
	}

	res := resolver{doc: doc, chain: chain, wrapped: wrapped}
	input, err := res.currency(doc.Input)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "resolve input", err)
	}
	output, err := res.currency(doc.Output)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "resolve output", err)
	}

	hops := make([]pool.PoolOrPair, 0, len(doc.Hops))
	for i, spec := range doc.Hops {
		hop, err := res.hop(spec)
		if err != nil {
			if cliErr, ok := clierr.As(err); ok {
				return nil, clierr.Wrap(cliErr.Code, fmt.Sprintf("hop %d", i), err)
			}
			return nil, err
		}
		hops = append(hops, hop)
	}

	opt := route.WithWrappedNative(wrapped)
	switch protocol := strings.ToLower(strings.TrimSpace(doc.Protocol)); protocol {
	case "", ProtocolMixed:
		return route.NewMixedRoute(hops, input, output, opt)
	case ProtocolV2:
		pairs := make([]*pool.Pair, len(hops))
		for i, hop := range hops {
			if hop.Kind() != pool.KindPair {
				return nil, clierr.Newf(clierr.CodeUsage, "v2 route has a %s hop at %d", hop.Kind(), i)
			}
			pairs[i] = hop.Pair()
		}
		return route.NewV2Route(pairs, input, output, opt)
	case ProtocolV3:
		pools := make([]*pool.Pool, len(hops))
		for i, hop := range hops {
			if hop.Kind() != pool.KindPool {
				return nil, clierr.Newf(clierr.CodeUsage, "v3 route has a %s hop at %d", hop.Kind(), i)
			}
			pools[i] = hop.Pool()
		}
		return route.NewV3Route(pools, input, output, opt)
	default:
		return nil, clierr.Newf(clierr.CodeUsage, "unsupported protocol %q (expected mixed|v2|v3)", doc.Protocol)
	}
}

type resolver struct {
	doc     *Document
	chain   currency.Chain
	wrapped currency.WrappedNative
}

// currency resolves a token table key, "native" or the native symbol, "wrapped", or an address.
func (r resolver) currency(ref string) (currency.Currency, error) {
	key := strings.TrimSpace(ref)
	if spec, ok := r.doc.Tokens[key]; ok {
		addr, err := currency.ParseAddress(spec.Address)
		if err != nil {
			return currency.Currency{}, err
		}
		decimals := 18
		if spec.Decimals != nil {
			decimals = *spec.Decimals
		}
		if decimals < 0 || decimals > 255 {
			return currency.Currency{}, clierr.Newf(clierr.CodeUsage, "token %s has invalid decimals %d", key, decimals)
		}
		return currency.NewToken(r.chain.ChainID, addr, decimals, spec.Symbol, spec.Name), nil
	}
	if strings.EqualFold(key, "wrapped") {
		return r.chain.Native().Wrapped(r.wrapped)
	}
	return currency.ParseCurrency(key, r.chain)
}

func (r resolver) hop(spec HopSpec) (pool.PoolOrPair, error) {
	if len(spec.Tokens) != 2 {
		return pool.PoolOrPair{}, clierr.Newf(clierr.CodeUsage, "expected 2 tokens, got %d", len(spec.Tokens))
	}
	a, err := r.currency(spec.Tokens[0])
	if err != nil {
		return pool.PoolOrPair{}, err
	}
	b, err := r.currency(spec.Tokens[1])
	if err != nil {
		return pool.PoolOrPair{}, err
	}

	switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
	case ProtocolV2, "pair":
		if len(spec.Reserves) != 2 {
			return pool.PoolOrPair{}, clierr.New(clierr.CodeUsage, "v2 hop needs 2 reserves")
		}
		ra, err := parseInt("reserve", spec.Reserves[0])
		if err != nil {
			return pool.PoolOrPair{}, err
		}
		rb, err := parseInt("reserve", spec.Reserves[1])
		if err != nil {
			return pool.PoolOrPair{}, err
		}
		pair, err := pool.NewPair(a, ra, b, rb)
		if err != nil {
			return pool.PoolOrPair{}, err
		}
		return pool.FromPair(pair), nil
	case ProtocolV3, "pool":
		fee, err := pool.ParseFeeAmount(spec.Fee)
		if err != nil {
			return pool.PoolOrPair{}, err
		}
		sqrt, err := r.sqrtPrice(spec, a, b)
		if err != nil {
			return pool.PoolOrPair{}, err
		}
		liquidity := new(uint256.Int)
		if strings.TrimSpace(spec.Liquidity) != "" {
			if liquidity, err = uint256.FromDecimal(strings.TrimSpace(spec.Liquidity)); err != nil {
				return pool.PoolOrPair{}, clierr.Wrap(clierr.CodeUsage, "parse liquidity", err)
			}
		}
		p, err := pool.NewPool(a, b, fee, sqrt, liquidity, spec.Tick)
		if err != nil {
			return pool.PoolOrPair{}, err
		}
		return pool.FromPool(p), nil
	default:
		return pool.PoolOrPair{}, clierr.Newf(clierr.CodeUsage, "unsupported hop kind %q (expected v2|v3)", spec.Kind)
	}
}

// sqrtPrice reads sqrt_price_x96 directly or derives it from a price ratio. Price amounts
// are given for the hop's listed token order and re-oriented to the pool's sorted order.
func (r resolver) sqrtPrice(spec HopSpec, a, b currency.Currency) (*uint256.Int, error) {
	hasSqrt := strings.TrimSpace(spec.SqrtPriceX96) != ""
	if hasSqrt == (spec.Price != nil) {
		return nil, clierr.New(clierr.CodeUsage, "v3 hop needs exactly one of sqrt_price_x96 or price")
	}
	if hasSqrt {
		v, err := uint256.FromDecimal(strings.TrimSpace(spec.SqrtPriceX96))
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, "parse sqrt_price_x96", err)
		}
		return v, nil
	}
	amount0, err := parseInt("price amount0", spec.Price.Amount0)
	if err != nil {
		return nil, err
	}
	amount1, err := parseInt("price amount1", spec.Price.Amount1)
	if err != nil {
		return nil, err
	}
	if b.SortsBefore(a) {
		amount0, amount1 = amount1, amount0
	}
	return pool.EncodeSqrtRatioX96(amount1, amount0)
}

func parseInt(label, raw string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return nil, clierr.Newf(clierr.CodeUsage, "%s must be a base-10 integer: %q", label, raw)
	}
	return v, nil
}
