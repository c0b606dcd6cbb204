package fraction

import (
	"math/big"

	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
)

var bipsScale = big.NewInt(10_000)

type Percent struct {
	raw *big.Rat
}

func NewPercent(numerator, denominator int64) (Percent, error) {
	if denominator == 0 {
		return Percent{}, clierr.New(clierr.CodeUsage, "percent denominator must be non-zero")
	}
	return Percent{raw: big.NewRat(numerator, denominator)}, nil
}

// PercentFromBips builds bips/10000.
func PercentFromBips(bips int64) Percent {
	return Percent{raw: big.NewRat(bips, 10_000)}
}

// Bips returns the percentage in basis points, rounded down.
func (p Percent) Bips() *big.Int {
	if p.raw == nil {
		return new(big.Int)
	}
	n := new(big.Int).Mul(p.raw.Num(), bipsScale)
	return n.Quo(n, p.raw.Denom())
}

func (p Percent) IsZero() bool {
	return p.raw == nil || p.raw.Sign() == 0
}
