package app

import (
	"strings"
	"time"

	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/model"
	"github.com/ggonzalez94/swaprouter/internal/pathcodec"
	"github.com/ggonzalez94/swaprouter/internal/route"
	"github.com/ggonzalez94/swaprouter/internal/routebook"
	"github.com/ggonzalez94/swaprouter/internal/routedoc"
	"github.com/spf13/cobra"
)

const (
	formatMixed = "mixed"
	formatV3    = "v3"
)

// routeSource selects a route document from a file or the routebook. Exactly one is set.
type routeSource struct {
	file string
	name string
}

func (src *routeSource) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&src.file, "file", "", "Route document (YAML or JSON)")
	cmd.Flags().StringVar(&src.name, "name", "", "Saved route name in the routebook")
	cmd.MarkFlagsMutuallyExclusive("file", "name")
	cmd.MarkFlagsOneRequired("file", "name")
}

func (s *runtimeState) newRouteCommand() *cobra.Command {
	root := &cobra.Command{Use: "route", Short: "Build, price, encode and store swap routes"}

	var buildSrc routeSource
	build := &cobra.Command{
		Use:     "build",
		Short:   "Validate a route document and summarize the route",
		Example: "swaprouter route build --file route.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := s.loadRoute(cmd, buildSrc)
			if err != nil {
				return err
			}
			summary, err := summarizeRoute(r.route, buildSrc.name)
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), summary, nil)
		},
	}
	buildSrc.bind(build)

	var (
		encodeSrc   routeSource
		format      string
		exactOutput bool
	)
	encode := &cobra.Command{
		Use:     "encode",
		Short:   "Encode a route as a swap router path",
		Example: "swaprouter route encode --file route.yaml --format v3 --exact-output",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != formatMixed && format != formatV3 {
				return clierr.Newf(clierr.CodeUsage, "unsupported --format %q (expected mixed|v3)", format)
			}
			if exactOutput && format != formatV3 {
				return clierr.New(clierr.CodeUsage, "--exact-output requires --format v3")
			}
			r, err := s.loadRoute(cmd, encodeSrc)
			if err != nil {
				return err
			}
			encoded, err := s.encodeRoute(r, format, exactOutput)
			if err != nil {
				return err
			}
			hops := len(r.route.Hops())
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), model.EncodedPath{
				Format:      format,
				ExactOutput: exactOutput,
				Hops:        hops,
				Bytes:       pathcodec.EncodedLength(hops),
				Path:        encoded,
			}, nil)
		},
	}
	encodeSrc.bind(encode)
	encode.Flags().StringVar(&format, "format", formatMixed, "Path format: mixed|v3")
	encode.Flags().BoolVar(&exactOutput, "exact-output", false, "Write the path output-first (v3 format only)")

	var (
		priceSrc    routeSource
		fixed       int
		significant int
		invert      bool
	)
	price := &cobra.Command{
		Use:   "price",
		Short: "Compute the exact mid price of a route",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixed < 0 {
				return clierr.New(clierr.CodeUsage, "--fixed must be non-negative")
			}
			r, err := s.loadRoute(cmd, priceSrc)
			if err != nil {
				return err
			}
			mid, err := r.route.MidPrice()
			if err != nil {
				return err
			}
			if invert {
				mid = mid.Invert()
			}
			info, err := priceInfo(mid, fixed, significant)
			if err != nil {
				return err
			}
			info.Inverted = invert
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), info, nil)
		},
	}
	priceSrc.bind(price)
	price.Flags().IntVar(&fixed, "fixed", 4, "Decimal places for the fixed rendering")
	price.Flags().IntVar(&significant, "significant", 6, "Significant digits for the significant rendering")
	price.Flags().BoolVar(&invert, "invert", false, "Quote the input currency in units of the output currency")

	var saveFile string
	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Validate a route document and store it in the routebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if err := routebook.ValidateName(name); err != nil {
				return err
			}
			r, err := s.loadRoute(cmd, routeSource{file: saveFile})
			if err != nil {
				return err
			}
			store, err := s.openRoutebook()
			if err != nil {
				return err
			}
			ctx, cancel := s.commandContext(cmd)
			defer cancel()
			if err := store.Save(ctx, name, r.doc); err != nil {
				return err
			}
			entry, err := store.Get(ctx, name)
			if err != nil {
				return err
			}
			s.log.Debug().Str("component", "routebook").Str("name", name).Int("hops", entry.Hops).Msg("saved route")
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), bookEntry(entry), nil)
		},
	}
	save.Flags().StringVar(&saveFile, "file", "", "Route document (YAML or JSON)")
	_ = save.MarkFlagRequired("file")

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := s.openRoutebook()
			if err != nil {
				return err
			}
			ctx, cancel := s.commandContext(cmd)
			defer cancel()
			entries, err := store.List(ctx)
			if err != nil {
				return err
			}
			items := make([]model.RouteBookEntry, 0, len(entries))
			for _, entry := range entries {
				items = append(items, bookEntry(entry))
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), items, nil)
		},
	}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Summarize a saved route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			r, err := s.loadRoute(cmd, routeSource{name: name})
			if err != nil {
				return err
			}
			summary, err := summarizeRoute(r.route, name)
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), summary, nil)
		},
	}

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a saved route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			store, err := s.openRoutebook()
			if err != nil {
				return err
			}
			ctx, cancel := s.commandContext(cmd)
			defer cancel()
			if err := store.Delete(ctx, name); err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), map[string]any{"name": name, "deleted": true}, nil)
		},
	}

	root.AddCommand(build, encode, price, save, list, show, del)
	return root
}

type loadedRoute struct {
	doc   *routedoc.Document
	route route.Route
}

func (s *runtimeState) loadRoute(cmd *cobra.Command, src routeSource) (loadedRoute, error) {
	var doc *routedoc.Document
	switch {
	case strings.TrimSpace(src.file) != "":
		loaded, err := routedoc.Load(src.file)
		if err != nil {
			return loadedRoute{}, err
		}
		doc = loaded
		s.lastSource = src.file
	case strings.TrimSpace(src.name) != "":
		store, err := s.openRoutebook()
		if err != nil {
			return loadedRoute{}, err
		}
		ctx, cancel := s.commandContext(cmd)
		defer cancel()
		entry, err := store.Get(ctx, src.name)
		if err != nil {
			return loadedRoute{}, err
		}
		doc = entry.Document
		s.lastSource = "routebook:" + src.name
	default:
		return loadedRoute{}, clierr.New(clierr.CodeUsage, "one of --file or --name is required")
	}

	r, err := routedoc.Build(doc, s.wrapped)
	if err != nil {
		return loadedRoute{}, err
	}
	s.log.Debug().Str("component", "route").Str("source", s.lastSource).Int("hops", len(r.Hops())).Msg("built route")
	return loadedRoute{doc: doc, route: r}, nil
}

func (s *runtimeState) encodeRoute(r loadedRoute, format string, exactOutput bool) (string, error) {
	if format == formatMixed {
		return pathcodec.EncodeMixedRoute(r.route)
	}
	v3, err := s.asV3Route(r)
	if err != nil {
		return "", err
	}
	return pathcodec.EncodeV3Route(v3, exactOutput)
}

// asV3Route narrows r to a pools-only route, rebuilding it when it was declared mixed.
func (s *runtimeState) asV3Route(r loadedRoute) (*route.V3Route, error) {
	if v3, ok := r.route.(*route.V3Route); ok {
		return v3, nil
	}
	doc := *r.doc
	doc.Protocol = routedoc.ProtocolV3
	rebuilt, err := routedoc.Build(&doc, s.wrapped)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "v3 format needs a pools-only route", err)
	}
	return rebuilt.(*route.V3Route), nil
}

func bookEntry(entry routebook.Entry) model.RouteBookEntry {
	return model.RouteBookEntry{
		Name:      entry.Name,
		Chain:     entry.Chain,
		Protocol:  entry.Protocol,
		Hops:      entry.Hops,
		UpdatedAt: entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
