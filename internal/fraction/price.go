// Package fraction holds exact rational prices and percentages.
//
// Prices are kept as big.Rat in raw (smallest-unit) terms and are only rounded when
// rendered with ToFixed or ToSignificant.
package fraction

import (
	"math/big"

	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/shopspring/decimal"
)

// Price is the number of Quote units one Base unit buys.
type Price struct {
	Base  currency.Currency
	Quote currency.Currency
	raw   *big.Rat
}

// NewPrice builds numerator/denominator, e.g. reserveQuote/reserveBase.
func NewPrice(base, quote currency.Currency, denominator, numerator *big.Int) (*Price, error) {
	if denominator == nil || numerator == nil {
		return nil, clierr.New(clierr.CodeUsage, "price requires numerator and denominator")
	}
	if denominator.Sign() == 0 {
		return nil, clierr.New(clierr.CodeUsage, "price denominator must be non-zero")
	}
	return &Price{Base: base, Quote: quote, raw: new(big.Rat).SetFrac(numerator, denominator)}, nil
}

// NewPriceFromRat copies r.
func NewPriceFromRat(base, quote currency.Currency, r *big.Rat) *Price {
	return &Price{Base: base, Quote: quote, raw: new(big.Rat).Set(r)}
}

// Raw returns a copy of the unadjusted ratio.
func (p *Price) Raw() *big.Rat {
	return new(big.Rat).Set(p.raw)
}

// Adjusted scales the raw ratio by the currencies' decimals so it reads in whole units.
func (p *Price) Adjusted() *big.Rat {
	scalar := new(big.Rat).SetFrac(pow10(p.Base.Decimals), pow10(p.Quote.Decimals))
	return new(big.Rat).Mul(p.raw, scalar)
}

func (p *Price) Invert() *Price {
	if p.raw.Sign() == 0 {
		return &Price{Base: p.Quote, Quote: p.Base, raw: new(big.Rat)}
	}
	return &Price{Base: p.Quote, Quote: p.Base, raw: new(big.Rat).Inv(p.raw)}
}

// Multiply chains p (A→B) with other (B→C) into A→C.
func (p *Price) Multiply(other *Price) (*Price, error) {
	if !p.Quote.Equal(other.Base) {
		return nil, clierr.Newf(clierr.CodeInternal, "cannot multiply price %s/%s by %s/%s", p.Base, p.Quote, other.Base, other.Quote)
	}
	return &Price{Base: p.Base, Quote: other.Quote, raw: new(big.Rat).Mul(p.raw, other.raw)}, nil
}

func (p *Price) Equal(other *Price) bool {
	if other == nil {
		return false
	}
	return p.Base.Equal(other.Base) && p.Quote.Equal(other.Quote) && p.raw.Cmp(other.raw) == 0
}

// ToFixed renders the adjusted price with exactly places decimals, rounding half up.
func (p *Price) ToFixed(places int) string {
	if places < 0 {
		places = 0
	}
	num, den := ratDecimals(p.Adjusted())
	return num.DivRound(den, int32(places)).StringFixed(int32(places))
}

// ToSignificant renders the adjusted price rounded half up to digits significant digits,
// without trailing zeros.
func (p *Price) ToSignificant(digits int) (string, error) {
	if digits <= 0 {
		return "", clierr.Newf(clierr.CodeUsage, "significant digits must be positive, got %d", digits)
	}
	num, den := ratDecimals(p.Adjusted())
	if num.IsZero() {
		return "0", nil
	}
	// Truncating well past the requested digits keeps the half-up decision exact.
	precision := int32(len(den.Coefficient().String()) + digits + 1)
	q, _ := num.QuoRem(den, precision)
	leading := q.NumDigits() + int(q.Exponent())
	return q.Round(int32(digits - leading)).String(), nil
}

func (p *Price) String() string {
	s, _ := p.ToSignificant(6)
	return s
}

func ratDecimals(r *big.Rat) (decimal.Decimal, decimal.Decimal) {
	return decimal.NewFromBigInt(r.Num(), 0), decimal.NewFromBigInt(r.Denom(), 0)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
