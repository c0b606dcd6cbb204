// Package currency models the two kinds of value a route can start or end in:
// the chain's native currency and ERC20-style tokens at an address.
package currency

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
)

const defaultDecimals = 18

// Currency is either the native currency of a chain or a token at Address on that chain.
type Currency struct {
	ChainID  int64
	Address  common.Address
	Decimals int
	Symbol   string
	Name     string
	native   bool
}

func NewToken(chainID int64, address common.Address, decimals int, symbol, name string) Currency {
	return Currency{ChainID: chainID, Address: address, Decimals: decimals, Symbol: symbol, Name: name}
}

func NewNative(chainID int64, decimals int, symbol, name string) Currency {
	return Currency{ChainID: chainID, Decimals: decimals, Symbol: symbol, Name: name, native: true}
}

// NativeOnChain returns the native currency of chainID.
func NativeOnChain(chainID int64) Currency {
	return ChainByID(chainID).Native()
}

func (c Currency) IsNative() bool { return c.native }

func (c Currency) IsToken() bool { return !c.native }

// Equal compares identity only: chain plus address for tokens, chain for native currencies.
func (c Currency) Equal(other Currency) bool {
	if c.native != other.native || c.ChainID != other.ChainID {
		return false
	}
	return c.native || c.Address == other.Address
}

// SortsBefore orders tokens by address, the ordering pools and pairs use for token0/token1.
func (c Currency) SortsBefore(other Currency) bool {
	return bytes.Compare(c.Address.Bytes(), other.Address.Bytes()) < 0
}

// Wrapped returns the token form of c: itself for tokens, the wrapped-native token otherwise.
func (c Currency) Wrapped(table WrappedNative) (Currency, error) {
	if !c.native {
		return c, nil
	}
	w, ok := table.Lookup(c.ChainID)
	if !ok {
		return Currency{}, clierr.Newf(clierr.CodeUnsupported, "no wrapped native token configured for chain %d", c.ChainID)
	}
	return w, nil
}

func (c Currency) String() string {
	if c.native {
		return fmt.Sprintf("%s(native:%d)", c.Symbol, c.ChainID)
	}
	if c.Symbol == "" {
		return strings.ToLower(c.Address.Hex())
	}
	return fmt.Sprintf("%s(%s)", c.Symbol, strings.ToLower(c.Address.Hex()))
}

// ParseAddress validates a 0x-prefixed 20-byte hex address.
func ParseAddress(input string) (common.Address, error) {
	raw := strings.TrimSpace(input)
	if !evmAddressPattern.MatchString(raw) {
		return common.Address{}, clierr.Newf(clierr.CodeUsage, "invalid EVM address: %s", input)
	}
	return common.HexToAddress(raw), nil
}
