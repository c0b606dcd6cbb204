package app

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/fraction"
	"github.com/ggonzalez94/swaprouter/internal/model"
	"github.com/ggonzalez94/swaprouter/internal/payments"
	"github.com/spf13/cobra"
)

const maxFeeBips = 10_000

type paymentArgs struct {
	token        string
	amount       string
	recipient    string
	feeBips      int64
	feeRecipient string
}

func (a *paymentArgs) bindRecipient(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.recipient, "recipient", "", "Recipient address (defaults to the caller)")
	cmd.Flags().Int64Var(&a.feeBips, "fee-bips", 0, "Fee taken from the amount, in basis points")
	cmd.Flags().StringVar(&a.feeRecipient, "fee-recipient", "", "Fee recipient address (required with --fee-bips)")
}

func (s *runtimeState) newPaymentsCommand() *cobra.Command {
	root := &cobra.Command{Use: "payments", Short: "Build swap router payment calldata"}
	root.PersistentFlags().String("chain", "", "Chain to address the calldata to (adds the swap router as target)")

	var unwrap paymentArgs
	unwrapCmd := &cobra.Command{
		Use:   "unwrap-native",
		Short: "Unwrap the router's wrapped-native balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("--amount-min", unwrap.amount)
			if err != nil {
				return err
			}
			recipient, fee, err := unwrap.recipientAndFee()
			if err != nil {
				return err
			}
			data, err := payments.EncodeUnwrapNative(amount, recipient, fee)
			if err != nil {
				return err
			}
			return s.emitCalldata(cmd, data)
		},
	}
	unwrapCmd.Flags().StringVar(&unwrap.amount, "amount-min", "", "Minimum amount to unwrap, in base units")
	_ = unwrapCmd.MarkFlagRequired("amount-min")
	unwrap.bindRecipient(unwrapCmd)

	var sweep paymentArgs
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the router's balance of a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := currency.ParseAddress(sweep.token)
			if err != nil {
				return err
			}
			amount, err := parseAmount("--amount-min", sweep.amount)
			if err != nil {
				return err
			}
			recipient, fee, err := sweep.recipientAndFee()
			if err != nil {
				return err
			}
			data, err := payments.EncodeSweepToken(token, amount, recipient, fee)
			if err != nil {
				return err
			}
			return s.emitCalldata(cmd, data)
		},
	}
	sweepCmd.Flags().StringVar(&sweep.token, "token", "", "Token address")
	sweepCmd.Flags().StringVar(&sweep.amount, "amount-min", "", "Minimum balance to sweep, in base units")
	_ = sweepCmd.MarkFlagRequired("token")
	_ = sweepCmd.MarkFlagRequired("amount-min")
	sweep.bindRecipient(sweepCmd)

	var pull paymentArgs
	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull tokens from the caller into the router",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := currency.ParseAddress(pull.token)
			if err != nil {
				return err
			}
			amount, err := parseAmount("--amount", pull.amount)
			if err != nil {
				return err
			}
			data, err := payments.EncodePull(token, amount)
			if err != nil {
				return err
			}
			return s.emitCalldata(cmd, data)
		},
	}
	pullCmd.Flags().StringVar(&pull.token, "token", "", "Token address")
	pullCmd.Flags().StringVar(&pull.amount, "amount", "", "Amount in base units")
	_ = pullCmd.MarkFlagRequired("token")
	_ = pullCmd.MarkFlagRequired("amount")

	var wrap paymentArgs
	wrapCmd := &cobra.Command{
		Use:   "wrap-native",
		Short: "Wrap native value sent with the call",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("--amount", wrap.amount)
			if err != nil {
				return err
			}
			data, err := payments.EncodeWrapNative(amount)
			if err != nil {
				return err
			}
			return s.emitCalldata(cmd, data)
		},
	}
	wrapCmd.Flags().StringVar(&wrap.amount, "amount", "", "Amount in base units")
	_ = wrapCmd.MarkFlagRequired("amount")

	root.AddCommand(unwrapCmd, sweepCmd, pullCmd, wrapCmd)
	return root
}

func (s *runtimeState) emitCalldata(cmd *cobra.Command, data string) error {
	out := model.Calldata{Calldata: data}
	if method, ok := payments.Describe(data); ok {
		out.Method = method
	}
	if raw, err := hexutil.Decode(data); err == nil && len(raw) >= 4 {
		out.Selector = hexutil.Encode(raw[:4])
	}

	chainFlag, _ := cmd.Flags().GetString("chain")
	if strings.TrimSpace(chainFlag) != "" {
		chain, err := currency.ParseChain(chainFlag)
		if err != nil {
			return err
		}
		out.ChainID = chain.ChainID
		if router, ok := s.swapRouter(chain.ChainID); ok {
			out.To = router
		} else {
			s.log.Warn().Int64("chain_id", chain.ChainID).Msg("no swap router registered for chain; set swap_router in config")
		}
	}
	return s.emitSuccess(trimRootPath(cmd.CommandPath()), out, nil)
}

func (a paymentArgs) recipientAndFee() (*common.Address, *payments.FeeOptions, error) {
	var recipient *common.Address
	if strings.TrimSpace(a.recipient) != "" {
		addr, err := currency.ParseAddress(a.recipient)
		if err != nil {
			return nil, nil, err
		}
		recipient = &addr
	}

	if a.feeBips == 0 && strings.TrimSpace(a.feeRecipient) == "" {
		return recipient, nil, nil
	}
	if a.feeBips <= 0 || a.feeBips > maxFeeBips {
		return nil, nil, clierr.Newf(clierr.CodeUsage, "--fee-bips must be between 1 and %d", maxFeeBips)
	}
	if strings.TrimSpace(a.feeRecipient) == "" {
		return nil, nil, clierr.New(clierr.CodeUsage, "--fee-recipient is required with --fee-bips")
	}
	feeRecipient, err := currency.ParseAddress(a.feeRecipient)
	if err != nil {
		return nil, nil, err
	}
	return recipient, &payments.FeeOptions{Fee: fraction.PercentFromBips(a.feeBips), Recipient: feeRecipient}, nil
}

func parseAmount(flag, raw string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok || value.Sign() < 0 {
		return nil, clierr.Newf(clierr.CodeUsage, "%s must be a non-negative base-10 integer", flag)
	}
	return value, nil
}
