// Package payments builds calldata for the swap router's payment helpers: unwrapping the
// wrapped-native token, sweeping leftover tokens, pulling tokens in and wrapping native value.
package payments

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/fraction"
	"github.com/ggonzalez94/swaprouter/internal/registry"
)

const (
	sigUnwrap                   = "unwrapWRBTC(uint256)"
	sigUnwrapToRecipient        = "unwrapWRBTC(uint256,address)"
	sigUnwrapWithFee            = "unwrapWRBTCWithFee(uint256,uint256,address)"
	sigUnwrapToRecipientWithFee = "unwrapWRBTCWithFee(uint256,address,uint256,address)"
	sigSweep                    = "sweepToken(address,uint256)"
	sigSweepToRecipient         = "sweepToken(address,uint256,address)"
	sigSweepWithFee             = "sweepTokenWithFee(address,uint256,uint256,address)"
	sigSweepToRecipientWithFee  = "sweepTokenWithFee(address,uint256,address,uint256,address)"
	sigPull                     = "pull(address,uint256)"
	sigWrap                     = "wrapRBTC(uint256)"
)

var methodsBySig = indexBySig(mustABI(registry.PaymentsExtendedABI))

// FeeOptions takes a cut of the unwrapped or swept amount for Recipient.
type FeeOptions struct {
	Fee       fraction.Percent
	Recipient common.Address
}

// EncodeUnwrapNative unwraps at least amountMinimum of the wrapped-native token held by the
// router. A nil recipient leaves the funds with the caller.
func EncodeUnwrapNative(amountMinimum *big.Int, recipient *common.Address, fee *FeeOptions) (string, error) {
	if err := checkAmount("amount minimum", amountMinimum); err != nil {
		return "", err
	}
	switch {
	case recipient != nil && fee != nil:
		return pack(sigUnwrapToRecipientWithFee, amountMinimum, *recipient, fee.Fee.Bips(), fee.Recipient)
	case recipient != nil:
		return pack(sigUnwrapToRecipient, amountMinimum, *recipient)
	case fee != nil:
		return pack(sigUnwrapWithFee, amountMinimum, fee.Fee.Bips(), fee.Recipient)
	default:
		return pack(sigUnwrap, amountMinimum)
	}
}

// EncodeSweepToken sends the router's full balance of token, which must be at least
// amountMinimum.
func EncodeSweepToken(token common.Address, amountMinimum *big.Int, recipient *common.Address, fee *FeeOptions) (string, error) {
	if err := checkAmount("amount minimum", amountMinimum); err != nil {
		return "", err
	}
	switch {
	case recipient != nil && fee != nil:
		return pack(sigSweepToRecipientWithFee, token, amountMinimum, *recipient, fee.Fee.Bips(), fee.Recipient)
	case recipient != nil:
		return pack(sigSweepToRecipient, token, amountMinimum, *recipient)
	case fee != nil:
		return pack(sigSweepWithFee, token, amountMinimum, fee.Fee.Bips(), fee.Recipient)
	default:
		return pack(sigSweep, token, amountMinimum)
	}
}

func EncodePull(token common.Address, amount *big.Int) (string, error) {
	if err := checkAmount("amount", amount); err != nil {
		return "", err
	}
	return pack(sigPull, token, amount)
}

func EncodeWrapNative(amount *big.Int) (string, error) {
	if err := checkAmount("amount", amount); err != nil {
		return "", err
	}
	return pack(sigWrap, amount)
}

// Selector returns the 4-byte selector for one of the payment method signatures.
func Selector(sig string) ([]byte, bool) {
	method, ok := methodsBySig[sig]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), method.ID...), true
}

// Describe returns the method signature a payments calldata string calls.
func Describe(calldata string) (string, bool) {
	raw, err := hexutil.Decode(calldata)
	if err != nil || len(raw) < 4 {
		return "", false
	}
	for sig, method := range methodsBySig {
		if bytes.Equal(method.ID, raw[:4]) {
			return sig, true
		}
	}
	return "", false
}

func pack(sig string, args ...any) (string, error) {
	method, ok := methodsBySig[sig]
	if !ok {
		return "", clierr.Newf(clierr.CodeInternal, "payments abi has no method %s", sig)
	}
	encoded, err := method.Inputs.Pack(args...)
	if err != nil {
		return "", clierr.Wrap(clierr.CodeInternal, "pack "+sig, err)
	}
	return hexutil.Encode(append(append([]byte(nil), method.ID...), encoded...)), nil
}

func checkAmount(label string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return clierr.Newf(clierr.CodeUsage, "%s must be a non-negative integer", label)
	}
	return nil
}

func indexBySig(parsed abi.ABI) map[string]abi.Method {
	out := make(map[string]abi.Method, len(parsed.Methods))
	for _, method := range parsed.Methods {
		out[method.Sig] = method
	}
	return out
}

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
