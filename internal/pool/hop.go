package pool

import (
	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/fraction"
)

// Kind tags which AMM model a hop uses.
type Kind uint8

const (
	KindPair Kind = iota + 1
	KindPool
)

func (k Kind) String() string {
	switch k {
	case KindPair:
		return "v2"
	case KindPool:
		return "v3"
	default:
		return "unknown"
	}
}

// PoolOrPair is one hop of a route: exactly one of a constant-product pair or a
// concentrated-liquidity pool. The zero value is not a valid hop.
type PoolOrPair struct {
	kind Kind
	pair *Pair
	pool *Pool
}

func FromPair(p *Pair) PoolOrPair { return PoolOrPair{kind: KindPair, pair: p} }
func FromPool(p *Pool) PoolOrPair { return PoolOrPair{kind: KindPool, pool: p} }

func (h PoolOrPair) Kind() Kind  { return h.kind }
func (h PoolOrPair) Pair() *Pair { return h.pair }
func (h PoolOrPair) Pool() *Pool { return h.pool }

// Valid reports whether h was built by FromPair or FromPool with a non-nil entity.
func (h PoolOrPair) Valid() bool {
	switch h.kind {
	case KindPair:
		return h.pair != nil
	case KindPool:
		return h.pool != nil
	default:
		return false
	}
}

func (h PoolOrPair) Token0() currency.Currency {
	if h.kind == KindPair {
		return h.pair.Token0()
	}
	return h.pool.Token0()
}

func (h PoolOrPair) Token1() currency.Currency {
	if h.kind == KindPair {
		return h.pair.Token1()
	}
	return h.pool.Token1()
}

func (h PoolOrPair) ChainID() int64 {
	return h.Token0().ChainID
}

func (h PoolOrPair) InvolvesToken(token currency.Currency) bool {
	return token.Equal(h.Token0()) || token.Equal(h.Token1())
}

// Other returns the token on the opposite side of token.
func (h PoolOrPair) Other(token currency.Currency) (currency.Currency, bool) {
	switch {
	case token.Equal(h.Token0()):
		return h.Token1(), true
	case token.Equal(h.Token1()):
		return h.Token0(), true
	default:
		return currency.Currency{}, false
	}
}

// PriceOf quotes token in units of the hop's other token.
func (h PoolOrPair) PriceOf(token currency.Currency) (*fraction.Price, error) {
	switch h.kind {
	case KindPair:
		return h.pair.PriceOf(token)
	case KindPool:
		return h.pool.PriceOf(token)
	default:
		return nil, clierr.New(clierr.CodeInternal, "uninitialized hop")
	}
}
