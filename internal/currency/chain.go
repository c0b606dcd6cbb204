package currency

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
)

var (
	eip155ChainPattern = regexp.MustCompile(`^eip155:[0-9]+$`)
	evmAddressPattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

type Chain struct {
	Name         string
	Slug         string
	ChainID      int64
	NativeSymbol string
	NativeName   string
}

func (c Chain) CAIP2() string {
	return fmt.Sprintf("eip155:%d", c.ChainID)
}

var chainBySlug = map[string]Chain{
	"ethereum":          {Name: "Ethereum", Slug: "ethereum", ChainID: 1, NativeSymbol: "ETH", NativeName: "Ether"},
	"mainnet":           {Name: "Ethereum", Slug: "ethereum", ChainID: 1, NativeSymbol: "ETH", NativeName: "Ether"},
	"optimism":          {Name: "Optimism", Slug: "optimism", ChainID: 10, NativeSymbol: "ETH", NativeName: "Ether"},
	"rootstock":         {Name: "Rootstock", Slug: "rootstock", ChainID: 30, NativeSymbol: "RBTC", NativeName: "Rootstock Bitcoin"},
	"rsk":               {Name: "Rootstock", Slug: "rootstock", ChainID: 30, NativeSymbol: "RBTC", NativeName: "Rootstock Bitcoin"},
	"rootstock-testnet": {Name: "Rootstock Testnet", Slug: "rootstock-testnet", ChainID: 31, NativeSymbol: "tRBTC", NativeName: "Test Rootstock Bitcoin"},
	"bsc":               {Name: "BSC", Slug: "bsc", ChainID: 56, NativeSymbol: "BNB", NativeName: "BNB"},
	"polygon":           {Name: "Polygon", Slug: "polygon", ChainID: 137, NativeSymbol: "POL", NativeName: "POL"},
	"base":              {Name: "Base", Slug: "base", ChainID: 8453, NativeSymbol: "ETH", NativeName: "Ether"},
	"arbitrum":          {Name: "Arbitrum", Slug: "arbitrum", ChainID: 42161, NativeSymbol: "ETH", NativeName: "Ether"},
	"avalanche":         {Name: "Avalanche", Slug: "avalanche", ChainID: 43114, NativeSymbol: "AVAX", NativeName: "Avalanche"},
	"taiko":             {Name: "Taiko", Slug: "taiko", ChainID: 167000, NativeSymbol: "ETH", NativeName: "Ether"},
}

var chainByID = func() map[int64]Chain {
	out := make(map[int64]Chain, len(chainBySlug))
	for _, chain := range chainBySlug {
		out[chain.ChainID] = chain
	}
	return out
}()

// ParseChain accepts a slug, a numeric chain ID or a CAIP-2 eip155 identifier.
// Unknown numeric chains are accepted with a generic ETH-like native currency.
func ParseChain(input string) (Chain, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Chain{}, clierr.New(clierr.CodeUsage, "chain is required")
	}
	norm := strings.ToLower(raw)
	if chain, ok := chainBySlug[norm]; ok {
		return chain, nil
	}
	if eip155ChainPattern.MatchString(norm) {
		norm = strings.TrimPrefix(norm, "eip155:")
	}
	id, err := strconv.ParseInt(norm, 10, 64)
	if err != nil || id <= 0 {
		return Chain{}, clierr.Newf(clierr.CodeUsage, "unsupported chain input: %s", input)
	}
	return ChainByID(id), nil
}

func ChainByID(id int64) Chain {
	if chain, ok := chainByID[id]; ok {
		return chain
	}
	return Chain{Name: fmt.Sprintf("EVM-%d", id), Slug: fmt.Sprintf("evm-%d", id), ChainID: id, NativeSymbol: "ETH", NativeName: "Ether"}
}

// Chains lists the registered chains ordered by chain ID.
func Chains() []Chain {
	out := make([]Chain, 0, len(chainByID))
	for _, chain := range chainByID {
		out = append(out, chain)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

// Native returns the native currency of chain.
func (c Chain) Native() Currency {
	return NewNative(c.ChainID, defaultDecimals, c.NativeSymbol, c.NativeName)
}

// ParseCurrency resolves "native", the chain's native symbol or a token address on chain.
func ParseCurrency(input string, chain Chain) (Currency, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Currency{}, clierr.New(clierr.CodeUsage, "currency is required")
	}
	if strings.EqualFold(raw, "native") || strings.EqualFold(raw, chain.NativeSymbol) {
		return chain.Native(), nil
	}
	addr, err := ParseAddress(raw)
	if err != nil {
		return Currency{}, err
	}
	return NewToken(chain.ChainID, addr, defaultDecimals, "", ""), nil
}
