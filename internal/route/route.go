// Package route chains constant-product pairs and concentrated-liquidity pools into
// routes between two currencies and prices them exactly.
package route

import (
	"sync"

	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/fraction"
	"github.com/ggonzalez94/swaprouter/internal/pool"
)

// Route is the read surface shared by MixedRoute, V2Route and V3Route.
type Route interface {
	Hops() []pool.PoolOrPair
	Path() []currency.Currency
	Input() currency.Currency
	Output() currency.Currency
	ChainID() int64
	MidPrice() (*fraction.Price, error)
}

// Option configures route construction.
type Option func(*options)

type options struct {
	wrapped currency.WrappedNative
}

// WithWrappedNative overrides the chain → wrapped-native table used to resolve native endpoints.
func WithWrappedNative(table currency.WrappedNative) Option {
	return func(o *options) { o.wrapped = table }
}

// MixedRoute is an ordered sequence of hops of either kind. It is immutable after
// construction; the mid price is computed on first use and cached.
type MixedRoute struct {
	hops       []pool.PoolOrPair
	path       []currency.Currency
	input      currency.Currency
	output     currency.Currency
	pathInput  currency.Currency
	pathOutput currency.Currency
	chainID    int64

	midOnce  sync.Once
	midPrice *fraction.Price
	midErr   error
}

func NewMixedRoute(hops []pool.PoolOrPair, input, output currency.Currency, opts ...Option) (*MixedRoute, error) {
	o := options{wrapped: currency.DefaultWrappedNative()}
	for _, opt := range opts {
		opt(&o)
	}
	if len(hops) == 0 {
		return nil, clierr.New(clierr.CodeRouteConstruction, "route requires at least one hop")
	}
	for i, hop := range hops {
		if !hop.Valid() {
			return nil, clierr.Newf(clierr.CodeRouteConstruction, "hop %d is empty", i)
		}
	}

	chainID := hops[0].ChainID()
	for i, hop := range hops[1:] {
		if hop.ChainID() != chainID {
			return nil, clierr.Newf(clierr.CodeChainMismatch, "hop %d is on chain %d, route is on chain %d", i+1, hop.ChainID(), chainID)
		}
	}
	if input.ChainID != chainID || output.ChainID != chainID {
		return nil, clierr.Newf(clierr.CodeChainMismatch, "route endpoints must be on chain %d", chainID)
	}

	pathInput, err := input.Wrapped(o.wrapped)
	if err != nil {
		return nil, err
	}
	pathOutput, err := output.Wrapped(o.wrapped)
	if err != nil {
		return nil, err
	}

	path := make([]currency.Currency, 0, len(hops)+1)
	path = append(path, pathInput)
	for i, hop := range hops {
		tail := path[len(path)-1]
		next, ok := hop.Other(tail)
		if !ok {
			return nil, clierr.Newf(clierr.CodeRouteConstruction, "hop %d does not contain %s", i, tail)
		}
		path = append(path, next)
	}
	if tail := path[len(path)-1]; !tail.Equal(pathOutput) {
		return nil, clierr.Newf(clierr.CodeRouteConstruction, "route ends in %s, expected %s", tail, pathOutput)
	}

	return &MixedRoute{
		hops:       append([]pool.PoolOrPair(nil), hops...),
		path:       path,
		input:      input,
		output:     output,
		pathInput:  pathInput,
		pathOutput: pathOutput,
		chainID:    chainID,
	}, nil
}

func (r *MixedRoute) Hops() []pool.PoolOrPair {
	return append([]pool.PoolOrPair(nil), r.hops...)
}

// Path is the token path, hops+1 long, with native endpoints replaced by their wrapped token.
func (r *MixedRoute) Path() []currency.Currency {
	return append([]currency.Currency(nil), r.path...)
}

func (r *MixedRoute) Input() currency.Currency      { return r.input }
func (r *MixedRoute) Output() currency.Currency     { return r.output }
func (r *MixedRoute) PathInput() currency.Currency  { return r.pathInput }
func (r *MixedRoute) PathOutput() currency.Currency { return r.pathOutput }
func (r *MixedRoute) ChainID() int64                { return r.chainID }

// MidPrice returns output per unit of input. The first call computes it; every later
// call returns the same *Price.
func (r *MixedRoute) MidPrice() (*fraction.Price, error) {
	r.midOnce.Do(func() {
		r.midPrice, r.midErr = r.computeMidPrice()
	})
	return r.midPrice, r.midErr
}

func (r *MixedRoute) computeMidPrice() (*fraction.Price, error) {
	var acc *fraction.Price
	for i, hop := range r.hops {
		hopPrice, err := hop.PriceOf(r.path[i])
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeInternal, "price hop", err)
		}
		if acc == nil {
			acc = hopPrice
			continue
		}
		if acc, err = acc.Multiply(hopPrice); err != nil {
			return nil, err
		}
	}
	return fraction.NewPriceFromRat(r.input, r.output, acc.Raw()), nil
}
