package app

import (
	"strings"

	"github.com/ggonzalez94/swaprouter/internal/currency"
	"github.com/ggonzalez94/swaprouter/internal/fraction"
	"github.com/ggonzalez94/swaprouter/internal/model"
	"github.com/ggonzalez94/swaprouter/internal/pathcodec"
	"github.com/ggonzalez94/swaprouter/internal/pool"
	"github.com/ggonzalez94/swaprouter/internal/route"
)

const protocolMixed = "MIXED"

func summarizeRoute(r route.Route, name string) (model.RouteSummary, error) {
	mid, err := r.MidPrice()
	if err != nil {
		return model.RouteSummary{}, err
	}
	midInfo, err := priceInfo(mid, 4, 6)
	if err != nil {
		return model.RouteSummary{}, err
	}
	encoded, err := pathcodec.EncodeMixedRoute(r)
	if err != nil {
		return model.RouteSummary{}, err
	}

	path := r.Path()
	pathInfo := make([]model.CurrencyInfo, 0, len(path))
	for _, c := range path {
		pathInfo = append(pathInfo, currencyInfo(c))
	}
	hops := r.Hops()
	hopInfo := make([]model.HopInfo, 0, len(hops))
	for i, hop := range hops {
		hopInfo = append(hopInfo, describeHop(i, hop))
	}

	return model.RouteSummary{
		Name:        name,
		Protocol:    protocolLabel(r),
		ChainID:     r.ChainID(),
		Chain:       currency.ChainByID(r.ChainID()).Slug,
		Input:       currencyInfo(r.Input()),
		Output:      currencyInfo(r.Output()),
		Path:        pathInfo,
		Hops:        hopInfo,
		MidPrice:    midInfo,
		EncodedPath: encoded,
	}, nil
}

func protocolLabel(r route.Route) string {
	if tagged, ok := r.(route.Tagged); ok {
		return tagged.Protocol().String()
	}
	return protocolMixed
}

func priceInfo(p *fraction.Price, fixed, significant int) (model.PriceInfo, error) {
	sig, err := p.ToSignificant(significant)
	if err != nil {
		return model.PriceInfo{}, err
	}
	return model.PriceInfo{
		Base:        label(p.Base),
		Quote:       label(p.Quote),
		Fixed:       p.ToFixed(fixed),
		Significant: sig,
		Raw:         p.Raw().RatString(),
	}, nil
}

func currencyInfo(c currency.Currency) model.CurrencyInfo {
	info := model.CurrencyInfo{Symbol: c.Symbol, Decimals: c.Decimals, Native: c.IsNative()}
	if c.IsToken() {
		info.Address = strings.ToLower(c.Address.Hex())
	}
	return info
}

func label(c currency.Currency) string {
	if c.Symbol != "" {
		return c.Symbol
	}
	return strings.ToLower(c.Address.Hex())
}

func describeHop(i int, hop pool.PoolOrPair) model.HopInfo {
	info := model.HopInfo{
		Index:  i,
		Kind:   hop.Kind().String(),
		Token0: strings.ToLower(hop.Token0().Address.Hex()),
		Token1: strings.ToLower(hop.Token1().Address.Hex()),
	}
	switch hop.Kind() {
	case pool.KindPair:
		info.Reserve0 = hop.Pair().Reserve0().String()
		info.Reserve1 = hop.Pair().Reserve1().String()
	case pool.KindPool:
		info.Fee = uint32(hop.Pool().Fee())
		info.SqrtPriceX96 = hop.Pool().SqrtRatioX96().Dec()
	}
	return info
}
