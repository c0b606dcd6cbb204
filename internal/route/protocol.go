package route

import (
	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/pool"
)

// Protocol records which hop model a specialized route was built from.
type Protocol string

const (
	ProtocolV2 Protocol = "V2"
	ProtocolV3 Protocol = "V3"
)

func (p Protocol) String() string { return string(p) }

// Tagged is implemented by routes whose hops are all of one kind.
type Tagged interface {
	Route
	Protocol() Protocol
}

// V2Route is a route made only of constant-product pairs.
type V2Route struct {
	*MixedRoute
	pairs []*pool.Pair
}

func NewV2Route(pairs []*pool.Pair, input, output currency.Currency, opts ...Option) (*V2Route, error) {
	hops := make([]pool.PoolOrPair, len(pairs))
	for i, p := range pairs {
		if p == nil {
			return nil, clierr.Newf(clierr.CodeRouteConstruction, "pair %d is nil", i)
		}
		hops[i] = pool.FromPair(p)
	}
	mixed, err := NewMixedRoute(hops, input, output, opts...)
	if err != nil {
		return nil, err
	}
	return &V2Route{MixedRoute: mixed, pairs: append([]*pool.Pair(nil), pairs...)}, nil
}

func (r *V2Route) Pairs() []*pool.Pair { return append([]*pool.Pair(nil), r.pairs...) }
func (r *V2Route) Protocol() Protocol  { return ProtocolV2 }

// V3Route is a route made only of concentrated-liquidity pools.
type V3Route struct {
	*MixedRoute
	pools []*pool.Pool
}

func NewV3Route(pools []*pool.Pool, input, output currency.Currency, opts ...Option) (*V3Route, error) {
	hops := make([]pool.PoolOrPair, len(pools))
	for i, p := range pools {
		if p == nil {
			return nil, clierr.Newf(clierr.CodeRouteConstruction, "pool %d is nil", i)
		}
		hops[i] = pool.FromPool(p)
	}
	mixed, err := NewMixedRoute(hops, input, output, opts...)
	if err != nil {
		return nil, err
	}
	return &V3Route{MixedRoute: mixed, pools: append([]*pool.Pool(nil), pools...)}, nil
}

func (r *V3Route) Pools() []*pool.Pool { return append([]*pool.Pool(nil), r.pools...) }
func (r *V3Route) Protocol() Protocol  { return ProtocolV3 }
