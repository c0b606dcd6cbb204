package pool

import (
	"strconv"
	"strings"

	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
)

// FeeAmount is a concentrated-liquidity fee tier in hundredths of a bip.
type FeeAmount uint32

const (
	FeeLowest FeeAmount = 100
	FeeLow    FeeAmount = 500
	FeeMedium FeeAmount = 3000
	FeeHigh   FeeAmount = 10000
)

// maxFee bounds what a pool can carry on-chain (uint24).
const maxFee = 1<<24 - 1

var tickSpacings = map[FeeAmount]int{
	FeeLowest: 1,
	FeeLow:    10,
	FeeMedium: 60,
	FeeHigh:   200,
}

var feeNames = map[string]FeeAmount{
	"lowest": FeeLowest,
	"low":    FeeLow,
	"medium": FeeMedium,
	"high":   FeeHigh,
}

// FeeAmounts lists the known tiers in ascending order.
func FeeAmounts() []FeeAmount {
	return []FeeAmount{FeeLowest, FeeLow, FeeMedium, FeeHigh}
}

// Known reports whether f is one of the enumerated tiers.
func (f FeeAmount) Known() bool {
	_, ok := tickSpacings[f]
	return ok
}

func (f FeeAmount) TickSpacing() (int, bool) {
	spacing, ok := tickSpacings[f]
	return spacing, ok
}

func (f FeeAmount) String() string {
	return strconv.FormatUint(uint64(f), 10)
}

// ParseFeeAmount accepts a tier name (low, medium, ...) or a raw numeric fee.
func ParseFeeAmount(input string) (FeeAmount, error) {
	raw := strings.ToLower(strings.TrimSpace(input))
	if fee, ok := feeNames[raw]; ok {
		return fee, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n > maxFee {
		return 0, clierr.Newf(clierr.CodeUsage, "invalid fee tier: %s", input)
	}
	return FeeAmount(n), nil
}
