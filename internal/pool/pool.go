package pool

import (
	"math/big"

	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/fraction"
	"github.com/holiman/uint256"
)

// q192 is the fixed-point denominator of a squared Q64.96 price.
var q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// Pool is a concentrated-liquidity pool. Tokens are stored in address order.
type Pool struct {
	token0       currency.Currency
	token1       currency.Currency
	fee          FeeAmount
	sqrtRatioX96 *uint256.Int
	liquidity    *uint256.Int
	tickCurrent  int
}

func NewPool(tokenA, tokenB currency.Currency, fee FeeAmount, sqrtRatioX96, liquidity *uint256.Int, tickCurrent int) (*Pool, error) {
	if err := checkTokens(tokenA, tokenB); err != nil {
		return nil, err
	}
	if fee > maxFee {
		return nil, clierr.Newf(clierr.CodeUsage, "fee %d exceeds uint24", fee)
	}
	if sqrtRatioX96 == nil || sqrtRatioX96.IsZero() {
		return nil, clierr.New(clierr.CodeUsage, "pool sqrt price must be positive")
	}
	if liquidity == nil {
		liquidity = new(uint256.Int)
	}
	if tokenB.SortsBefore(tokenA) {
		tokenA, tokenB = tokenB, tokenA
	}
	return &Pool{
		token0:       tokenA,
		token1:       tokenB,
		fee:          fee,
		sqrtRatioX96: new(uint256.Int).Set(sqrtRatioX96),
		liquidity:    new(uint256.Int).Set(liquidity),
		tickCurrent:  tickCurrent,
	}, nil
}

func (p *Pool) Token0() currency.Currency  { return p.token0 }
func (p *Pool) Token1() currency.Currency  { return p.token1 }
func (p *Pool) ChainID() int64             { return p.token0.ChainID }
func (p *Pool) Fee() FeeAmount             { return p.fee }
func (p *Pool) TickCurrent() int           { return p.tickCurrent }
func (p *Pool) SqrtRatioX96() *uint256.Int { return new(uint256.Int).Set(p.sqrtRatioX96) }
func (p *Pool) Liquidity() *uint256.Int    { return new(uint256.Int).Set(p.liquidity) }

func (p *Pool) InvolvesToken(token currency.Currency) bool {
	return token.Equal(p.token0) || token.Equal(p.token1)
}

// Token0Price is sqrtRatioX96² / 2¹⁹².
func (p *Pool) Token0Price() *fraction.Price {
	sqrt := p.sqrtRatioX96.ToBig()
	price, _ := fraction.NewPrice(p.token0, p.token1, q192, new(big.Int).Mul(sqrt, sqrt))
	return price
}

func (p *Pool) Token1Price() *fraction.Price {
	return p.Token0Price().Invert()
}

func (p *Pool) PriceOf(token currency.Currency) (*fraction.Price, error) {
	switch {
	case token.Equal(p.token0):
		return p.Token0Price(), nil
	case token.Equal(p.token1):
		return p.Token1Price(), nil
	default:
		return nil, clierr.Newf(clierr.CodeUsage, "token %s not in pool", token)
	}
}

// EncodeSqrtRatioX96 returns sqrt(amount1/amount0) as a Q64.96 number.
func EncodeSqrtRatioX96(amount1, amount0 *big.Int) (*uint256.Int, error) {
	if amount0 == nil || amount1 == nil || amount0.Sign() <= 0 || amount1.Sign() <= 0 {
		return nil, clierr.New(clierr.CodeUsage, "sqrt ratio amounts must be positive")
	}
	ratioX192 := new(big.Int).Lsh(amount1, 192)
	ratioX192.Quo(ratioX192, amount0)
	out, overflow := uint256.FromBig(new(big.Int).Sqrt(ratioX192))
	if overflow {
		return nil, clierr.New(clierr.CodeUsage, "sqrt ratio overflows uint256")
	}
	return out, nil
}
