package pool

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/holiman/uint256"
)

var (
	tokenLow  = currency.NewToken(30, common.HexToAddress("0x0000000000000000000000000000000000000001"), 18, "LOW", "")
	tokenHigh = currency.NewToken(30, common.HexToAddress("0x0000000000000000000000000000000000000002"), 6, "HIGH", "")
)

func TestNewPairSortsTokens(t *testing.T) {
	pair, err := NewPair(tokenHigh, big.NewInt(300), tokenLow, big.NewInt(100))
	if err != nil {
		t.Fatalf("NewPair failed: %v", err)
	}
	if !pair.Token0().Equal(tokenLow) || !pair.Token1().Equal(tokenHigh) {
		t.Fatalf("tokens not sorted: %s %s", pair.Token0(), pair.Token1())
	}
	if pair.Reserve0().Int64() != 100 || pair.Reserve1().Int64() != 300 {
		t.Fatalf("reserves not sorted with tokens: %s %s", pair.Reserve0(), pair.Reserve1())
	}
	if got := pair.Token0Price().Raw(); got.Cmp(big.NewRat(3, 1)) != 0 {
		t.Fatalf("unexpected token0 price: %s", got)
	}
	price, err := pair.PriceOf(tokenHigh)
	if err != nil || price.Raw().Cmp(big.NewRat(1, 3)) != 0 {
		t.Fatalf("unexpected token1 price: %v (err=%v)", price, err)
	}
	if !price.Base.Equal(tokenHigh) || !price.Quote.Equal(tokenLow) {
		t.Fatalf("unexpected price currencies: %s/%s", price.Base, price.Quote)
	}
}

func TestNewPairRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		a, b currency.Currency
		ra   int64
		code clierr.Code
	}{
		{name: "native", a: currency.NativeOnChain(30), b: tokenLow, ra: 1, code: clierr.CodeUsage},
		{name: "identical", a: tokenLow, b: tokenLow, ra: 1, code: clierr.CodeUsage},
		{name: "chain mismatch", a: currency.NewToken(1, tokenHigh.Address, 18, "", ""), b: tokenLow, ra: 1, code: clierr.CodeChainMismatch},
		{name: "zero reserve", a: tokenHigh, b: tokenLow, ra: 0, code: clierr.CodeUsage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPair(tc.a, big.NewInt(tc.ra), tc.b, big.NewInt(1))
			if !clierr.IsCode(err, tc.code) {
				t.Fatalf("expected code %d, got %v", tc.code, err)
			}
		})
	}
}

func TestPoolPriceFromSqrtRatio(t *testing.T) {
	sqrt, err := EncodeSqrtRatioX96(big.NewInt(4), big.NewInt(1))
	if err != nil {
		t.Fatalf("EncodeSqrtRatioX96 failed: %v", err)
	}
	want := new(uint256.Int).Lsh(uint256.NewInt(2), 96)
	if !sqrt.Eq(want) {
		t.Fatalf("unexpected sqrt ratio %s, want %s", sqrt.Dec(), want.Dec())
	}

	p, err := NewPool(tokenHigh, tokenLow, FeeLow, sqrt, uint256.NewInt(10), -5)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	if !p.Token0().Equal(tokenLow) || p.Fee() != FeeLow || p.TickCurrent() != -5 {
		t.Fatalf("unexpected pool fields")
	}
	if got := p.Token0Price().Raw(); got.Cmp(big.NewRat(4, 1)) != 0 {
		t.Fatalf("unexpected token0 price: %s", got)
	}
	if got := p.Token1Price().Raw(); got.Cmp(big.NewRat(1, 4)) != 0 {
		t.Fatalf("unexpected token1 price: %s", got)
	}
	if _, err := p.PriceOf(currency.NewToken(30, common.HexToAddress("0x03"), 18, "", "")); err == nil {
		t.Fatal("expected foreign token to be rejected")
	}
}

func TestNewPoolValidation(t *testing.T) {
	one := uint256.NewInt(1)
	if _, err := NewPool(tokenLow, tokenHigh, FeeMedium, uint256.NewInt(0), nil, 0); !clierr.IsCode(err, clierr.CodeUsage) {
		t.Fatalf("expected zero sqrt price to fail, got %v", err)
	}
	if _, err := NewPool(tokenLow, tokenHigh, FeeAmount(1<<24), one, nil, 0); !clierr.IsCode(err, clierr.CodeUsage) {
		t.Fatalf("expected oversize fee to fail, got %v", err)
	}
	p, err := NewPool(tokenLow, tokenHigh, FeeAmount(2500), one, nil, 0)
	if err != nil {
		t.Fatalf("non-standard fee should still construct: %v", err)
	}
	if p.Fee().Known() {
		t.Fatal("2500 is not an enumerated tier")
	}
	if !p.Liquidity().IsZero() {
		t.Fatal("nil liquidity should default to zero")
	}
}

func TestPoolOrPairDispatch(t *testing.T) {
	pair, _ := NewPair(tokenLow, big.NewInt(1), tokenHigh, big.NewInt(2))
	sqrt, _ := EncodeSqrtRatioX96(big.NewInt(1), big.NewInt(1))
	p, _ := NewPool(tokenLow, tokenHigh, FeeMedium, sqrt, nil, 0)

	for _, hop := range []PoolOrPair{FromPair(pair), FromPool(p)} {
		if !hop.Valid() {
			t.Fatalf("%s hop should be valid", hop.Kind())
		}
		other, ok := hop.Other(tokenLow)
		if !ok || !other.Equal(tokenHigh) {
			t.Fatalf("%s hop: unexpected other side %s", hop.Kind(), other)
		}
		if _, ok := hop.Other(currency.NativeOnChain(30)); ok {
			t.Fatalf("%s hop should not contain native currency", hop.Kind())
		}
		if hop.ChainID() != 30 || !hop.InvolvesToken(tokenHigh) {
			t.Fatalf("%s hop: unexpected chain or membership", hop.Kind())
		}
	}
	if FromPair(pair).Kind().String() != "v2" || FromPool(p).Kind().String() != "v3" {
		t.Fatal("unexpected kind names")
	}

	var empty PoolOrPair
	if empty.Valid() || FromPool(nil).Valid() {
		t.Fatal("zero and nil hops must be invalid")
	}
	if _, err := empty.PriceOf(tokenLow); err == nil {
		t.Fatal("expected error pricing an empty hop")
	}
}

func TestParseFeeAmount(t *testing.T) {
	cases := map[string]FeeAmount{
		"low":    FeeLow,
		"MEDIUM": FeeMedium,
		"100":    FeeLowest,
		" 10000": FeeHigh,
		"2500":   FeeAmount(2500),
	}
	for input, want := range cases {
		got, err := ParseFeeAmount(input)
		if err != nil || got != want {
			t.Fatalf("ParseFeeAmount(%q) = %d, %v; want %d", input, got, err, want)
		}
	}
	for _, bad := range []string{"", "cheap", "-1", "16777216"} {
		if _, err := ParseFeeAmount(bad); !clierr.IsCode(err, clierr.CodeUsage) {
			t.Fatalf("ParseFeeAmount(%q) expected usage error, got %v", bad, err)
		}
	}
	if spacing, ok := FeeMedium.TickSpacing(); !ok || spacing != 60 {
		t.Fatalf("unexpected tick spacing %d", spacing)
	}
}
