package pool

import (
	"math/big"

	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/fraction"
)

// Pair is a constant-product pair. Tokens are stored in address order.
type Pair struct {
	token0   currency.Currency
	token1   currency.Currency
	reserve0 *big.Int
	reserve1 *big.Int
}

// NewPair takes the two sides in any order; reserveA belongs to tokenA.
func NewPair(tokenA currency.Currency, reserveA *big.Int, tokenB currency.Currency, reserveB *big.Int) (*Pair, error) {
	if err := checkTokens(tokenA, tokenB); err != nil {
		return nil, err
	}
	if reserveA == nil || reserveB == nil || reserveA.Sign() <= 0 || reserveB.Sign() <= 0 {
		return nil, clierr.New(clierr.CodeUsage, "pair reserves must be positive")
	}
	if tokenB.SortsBefore(tokenA) {
		tokenA, tokenB = tokenB, tokenA
		reserveA, reserveB = reserveB, reserveA
	}
	return &Pair{
		token0:   tokenA,
		token1:   tokenB,
		reserve0: new(big.Int).Set(reserveA),
		reserve1: new(big.Int).Set(reserveB),
	}, nil
}

func (p *Pair) Token0() currency.Currency { return p.token0 }
func (p *Pair) Token1() currency.Currency { return p.token1 }
func (p *Pair) ChainID() int64            { return p.token0.ChainID }
func (p *Pair) Reserve0() *big.Int        { return new(big.Int).Set(p.reserve0) }
func (p *Pair) Reserve1() *big.Int        { return new(big.Int).Set(p.reserve1) }

func (p *Pair) InvolvesToken(token currency.Currency) bool {
	return token.Equal(p.token0) || token.Equal(p.token1)
}

// Token0Price is reserve1/reserve0.
func (p *Pair) Token0Price() *fraction.Price {
	price, _ := fraction.NewPrice(p.token0, p.token1, p.reserve0, p.reserve1)
	return price
}

// Token1Price is reserve0/reserve1.
func (p *Pair) Token1Price() *fraction.Price {
	price, _ := fraction.NewPrice(p.token1, p.token0, p.reserve1, p.reserve0)
	return price
}

// PriceOf quotes token in terms of the other side of the pair.
func (p *Pair) PriceOf(token currency.Currency) (*fraction.Price, error) {
	switch {
	case token.Equal(p.token0):
		return p.Token0Price(), nil
	case token.Equal(p.token1):
		return p.Token1Price(), nil
	default:
		return nil, clierr.Newf(clierr.CodeUsage, "token %s not in pair", token)
	}
}

func checkTokens(a, b currency.Currency) error {
	if a.IsNative() || b.IsNative() {
		return clierr.New(clierr.CodeUsage, "pools hold tokens only; wrap the native currency first")
	}
	if a.ChainID != b.ChainID {
		return clierr.Newf(clierr.CodeChainMismatch, "tokens on different chains: %d and %d", a.ChainID, b.ChainID)
	}
	if a.Equal(b) {
		return clierr.Newf(clierr.CodeUsage, "pool tokens must differ: %s", a)
	}
	return nil
}
