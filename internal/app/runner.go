package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ggonzalez94/swaprouter/internal/config"
	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/model"
	"github.com/ggonzalez94/swaprouter/internal/out"
	"github.com/ggonzalez94/swaprouter/internal/policy"
	"github.com/ggonzalez94/swaprouter/internal/registry"
	"github.com/ggonzalez94/swaprouter/internal/routebook"
	"github.com/ggonzalez94/swaprouter/internal/schema"
	"github.com/ggonzalez94/swaprouter/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type Runner struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func NewRunner() *Runner {
	return NewRunnerWithWriters(os.Stdout, os.Stderr)
}

func NewRunnerWithWriters(stdout, stderr io.Writer) *Runner {
	return &Runner{
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

type runtimeState struct {
	runner      *Runner
	flags       config.GlobalFlags
	settings    config.Settings
	log         zerolog.Logger
	wrapped     currency.WrappedNative
	routers     map[int64]string
	routebook   *routebook.Store
	root        *cobra.Command
	lastCommand string
	lastSource  string
}

func (r *Runner) Run(args []string) int {
	state := &runtimeState{runner: r, log: zerolog.Nop()}
	root := state.newRootCommand()
	state.root = root
	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	err = normalizeRunError(err)
	defer state.close()
	if err == nil {
		return 0
	}

	state.log.Debug().Err(err).Str("command", state.lastCommand).Msg("command failed")
	state.renderError("", err)
	return clierr.ExitCode(err)
}

func (s *runtimeState) newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   version.CLIName,
		Short: "Build, price and encode mixed V2/V3 swap routes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			settings, err := config.Load(s.flags)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "load configuration", err)
			}
			s.settings = settings
			s.log = newLogger(s.runner.stderr, settings.Verbose)

			path := trimRootPath(cmd.CommandPath())
			s.lastCommand = path
			if err := policy.CheckCommandAllowed(settings.EnableCommands, path); err != nil {
				return err
			}

			wrapped, err := wrappedTable(settings.WrappedNative)
			if err != nil {
				return err
			}
			s.wrapped = wrapped
			routers, err := routerTable(settings.SwapRouter)
			if err != nil {
				return err
			}
			s.routers = routers
			s.log.Debug().Str("command", path).Int("wrapped_overrides", len(settings.WrappedNative)).Msg("configuration loaded")
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Wrap(clierr.CodeUsage, "parse flags", err)
	})

	cmd.PersistentFlags().BoolVar(&s.flags.JSON, "json", false, "Output JSON (default)")
	cmd.PersistentFlags().BoolVar(&s.flags.Plain, "plain", false, "Output plain text")
	cmd.PersistentFlags().StringVar(&s.flags.Select, "select", "", "Select fields from data (comma-separated, dotted for nested)")
	cmd.PersistentFlags().BoolVar(&s.flags.ResultsOnly, "results-only", false, "Output only data payload")
	cmd.PersistentFlags().StringVar(&s.flags.EnableCommands, "enable-commands", "", "Allowlist command paths (comma-separated)")
	cmd.PersistentFlags().BoolVarP(&s.flags.Verbose, "verbose", "v", false, "Log debug details to stderr")
	cmd.PersistentFlags().StringVar(&s.flags.Timeout, "timeout", "", "Routebook operation timeout")
	cmd.PersistentFlags().StringVar(&s.flags.RoutebookPath, "routebook", "", "Path to the routebook database")
	cmd.PersistentFlags().StringVar(&s.flags.ConfigPath, "config", "", "Path to config file")

	cmd.AddCommand(s.newSchemaCommand())
	cmd.AddCommand(s.newChainsCommand())
	cmd.AddCommand(s.newRouteCommand())
	cmd.AddCommand(s.newPathCommand())
	cmd.AddCommand(s.newPaymentsCommand())
	cmd.AddCommand(s.newVersionCommand())

	return cmd
}

func (s *runtimeState) newVersionCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if long {
				return s.emitSuccess(trimRootPath(cmd.CommandPath()), version.Current(), nil)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.CLIVersion)
			return err
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print extended build metadata")
	return cmd
}

func (s *runtimeState) newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [command path]",
		Short: "Print machine-readable command schema",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.Build(s.root, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), data, nil)
		},
	}
}

func (s *runtimeState) newChainsCommand() *cobra.Command {
	root := &cobra.Command{Use: "chains", Short: "Chain registry"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List known chains with their wrapped-native token and swap router",
		RunE: func(cmd *cobra.Command, args []string) error {
			chains := currency.Chains()
			items := make([]model.ChainInfo, 0, len(chains))
			for _, chain := range chains {
				info := model.ChainInfo{
					Name:         chain.Name,
					Slug:         chain.Slug,
					ChainID:      chain.ChainID,
					CAIP2:        chain.CAIP2(),
					NativeSymbol: chain.NativeSymbol,
				}
				if w, ok := s.wrapped.Lookup(chain.ChainID); ok {
					info.WrappedNative = strings.ToLower(w.Address.Hex())
				}
				if router, ok := s.swapRouter(chain.ChainID); ok {
					info.SwapRouter = router
				}
				items = append(items, info)
			}
			return s.emitSuccess(trimRootPath(cmd.CommandPath()), items, nil)
		},
	}
	root.AddCommand(list)
	return root
}

func (s *runtimeState) emitSuccess(commandPath string, data any, warnings []string) error {
	env := model.Envelope{
		Version:  model.EnvelopeVersion,
		Success:  true,
		Data:     data,
		Error:    nil,
		Warnings: warnings,
		Meta: model.EnvelopeMeta{
			RequestID: newRequestID(),
			Timestamp: s.runner.now().UTC(),
			Command:   commandPath,
			Source:    s.lastSource,
		},
	}
	return out.Render(s.runner.stdout, env, s.settings)
}

func (s *runtimeState) renderError(commandPath string, err error) {
	if strings.TrimSpace(commandPath) == "" {
		commandPath = s.lastCommand
		if commandPath == "" {
			commandPath = version.CLIName
		}
	}
	code := clierr.ExitCode(err)
	typ := clierr.TypeName(clierr.CodeInternal)
	message := err.Error()
	if cErr, ok := clierr.As(err); ok {
		typ = clierr.TypeName(cErr.Code)
		message = cErr.Error()
	}

	settings := s.settings
	if settings.OutputMode == "" {
		settings.OutputMode = "json"
	}
	settings.ResultsOnly = false
	settings.SelectFields = nil
	env := model.Envelope{
		Version: model.EnvelopeVersion,
		Success: false,
		Data:    []any{},
		Error: &model.ErrorBody{
			Code:    code,
			Type:    typ,
			Message: message,
		},
		Meta: model.EnvelopeMeta{
			RequestID: newRequestID(),
			Timestamp: s.runner.now().UTC(),
			Command:   commandPath,
			Source:    s.lastSource,
		},
	}
	_ = out.Render(s.runner.stderr, env, settings)
}

// openRoutebook opens the store on first use; commands that never touch it never create it.
func (s *runtimeState) openRoutebook() (*routebook.Store, error) {
	if s.routebook != nil {
		return s.routebook, nil
	}
	store, err := routebook.Open(s.settings.RoutebookPath, s.settings.RoutebookLockPath)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "open routebook", err)
	}
	s.log.Debug().Str("component", "routebook").Str("path", s.settings.RoutebookPath).Msg("opened routebook")
	s.routebook = store
	return store, nil
}

func (s *runtimeState) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), s.settings.Timeout)
}

func (s *runtimeState) close() {
	if s.routebook != nil {
		_ = s.routebook.Close()
	}
}

// wrappedTable applies configured overrides, keyed by chain slug or id, to the defaults.
func wrappedTable(overrides map[string]string) (currency.WrappedNative, error) {
	table := currency.DefaultWrappedNative()
	for key, raw := range overrides {
		chain, err := currency.ParseChain(key)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, "wrapped_native override", err)
		}
		addr, err := currency.ParseAddress(raw)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, "wrapped_native override for "+key, err)
		}
		table = table.With(chain.ChainID, addr)
	}
	return table, nil
}

// routerTable validates configured swap router overrides, keyed by chain slug or id.
func routerTable(overrides map[string]string) (map[int64]string, error) {
	table := make(map[int64]string, len(overrides))
	for key, raw := range overrides {
		chain, err := currency.ParseChain(key)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, "swap_router override", err)
		}
		addr, err := currency.ParseAddress(raw)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUsage, "swap_router override for "+key, err)
		}
		table[chain.ChainID] = addr.Hex()
	}
	return table, nil
}

// swapRouter prefers a configured router over the registry entry.
func (s *runtimeState) swapRouter(chainID int64) (string, bool) {
	if router, ok := s.routers[chainID]; ok {
		return router, true
	}
	return registry.SwapRouter(chainID)
}

func newRequestID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func trimRootPath(path string) string {
	parts := strings.Fields(path)
	if len(parts) <= 1 {
		return path
	}
	return strings.Join(parts[1:], " ")
}

func normalizeRunError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := clierr.As(err); ok {
		return err
	}
	if isLikelyUsageError(err) {
		return clierr.Wrap(clierr.CodeUsage, "invalid command input", err)
	}
	return clierr.Wrap(clierr.CodeInternal, "execute command", err)
}

func isLikelyUsageError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	patterns := []string{
		"unknown command",
		"unknown flag",
		"required flag(s)",
		"flag needs an argument",
		"requires at least",
		"requires exactly",
		"accepts ",
		"invalid argument",
		"invalid args",
		"if any flags in the group",
		"none of the others can be",
		"at least one of the flags",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
