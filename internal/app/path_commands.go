package app

import (
	"strings"

	"github.com/ggonzalez94/swaprouter/internal/model"
	"github.com/ggonzalez94/swaprouter/internal/pathcodec"
	"github.com/ggonzalez94/swaprouter/internal/pool"
	"github.com/spf13/cobra"
)

func (s *runtimeState) newPathCommand() *cobra.Command {
	root := &cobra.Command{Use: "path", Short: "Inspect encoded swap paths"}
	decode := &cobra.Command{
		Use:     "decode <hex>",
		Short:   "Decode a mixed or v3 path into tokens and hop markers",
		Example: "swaprouter path decode 0x...",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pathcodec.Decode(args[0])
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), decodedPath(p), nil)
		},
	}
	root.AddCommand(decode)
	return root
}

func decodedPath(p pathcodec.Path) model.DecodedPath {
	tokens := make([]string, 0, len(p.Tokens))
	for _, token := range p.Tokens {
		tokens = append(tokens, strings.ToLower(token.Hex()))
	}
	hops := make([]model.DecodedHop, 0, len(p.Markers))
	for i, m := range p.Markers {
		hop := model.DecodedHop{
			Index:    i,
			Kind:     m.Kind.String(),
			TokenIn:  tokens[i],
			TokenOut: tokens[i+1],
		}
		if m.Kind == pool.KindPool {
			hop.Fee = uint32(m.Fee)
			hop.FeeKnown = m.Fee.Known()
		}
		hops = append(hops, hop)
	}
	return model.DecodedPath{
		Bytes:  pathcodec.EncodedLength(len(p.Markers)),
		Tokens: tokens,
		Hops:   hops,
	}
}
