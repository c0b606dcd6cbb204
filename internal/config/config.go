package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "SWAPROUTER_"

type GlobalFlags struct {
	ConfigPath     string
	JSON           bool
	Plain          bool
	Select         string
	ResultsOnly    bool
	EnableCommands string
	Verbose        bool
	Timeout        string
	RoutebookPath  string
}

type Settings struct {
	OutputMode        string
	SelectFields      []string
	ResultsOnly       bool
	EnableCommands    []string
	Verbose           bool
	Timeout           time.Duration
	RoutebookPath     string
	RoutebookLockPath string
	// WrappedNative maps a chain (slug or numeric id) to a wrapped-native token address that
	// replaces the built-in default.
	WrappedNative     map[string]string
	// SwapRouter maps a chain to the router address payments calldata targets, for chains the
	// built-in registry does not cover.
	SwapRouter        map[string]string
}

type fileConfig struct {
	Output    string `yaml:"output"`
	Verbose   *bool  `yaml:"verbose"`
	Timeout   string `yaml:"timeout"`
	Routebook struct {
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"routebook"`
	WrappedNative map[string]string `yaml:"wrapped_native"`
	SwapRouter    map[string]string `yaml:"swap_router"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}

	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	if err := applyEnv(&settings); err != nil {
		return Settings{}, err
	}

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	if settings.OutputMode == "" {
		settings.OutputMode = "json"
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 10 * time.Second
	}

	return settings, nil
}

func defaultSettings() (Settings, error) {
	dir, err := defaultDataDir()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		OutputMode:        "json",
		Timeout:           10 * time.Second,
		RoutebookPath:     filepath.Join(dir, "routes.db"),
		RoutebookLockPath: filepath.Join(dir, "routes.lock"),
		WrappedNative:     map[string]string{},
		SwapRouter:        map[string]string{},
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "swaprouter", "config.yaml"), nil
}

func defaultDataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "swaprouter"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Output != "" {
		settings.OutputMode = strings.ToLower(cfg.Output)
	}
	if cfg.Verbose != nil {
		settings.Verbose = *cfg.Verbose
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.Routebook.Path != "" {
		settings.RoutebookPath = cfg.Routebook.Path
		if cfg.Routebook.LockPath == "" {
			settings.RoutebookLockPath = lockPathFor(cfg.Routebook.Path)
		}
	}
	if cfg.Routebook.LockPath != "" {
		settings.RoutebookLockPath = cfg.Routebook.LockPath
	}
	for chain, addr := range cfg.WrappedNative {
		settings.WrappedNative[strings.ToLower(strings.TrimSpace(chain))] = strings.TrimSpace(addr)
	}
	for chain, addr := range cfg.SwapRouter {
		settings.SwapRouter[strings.ToLower(strings.TrimSpace(chain))] = strings.TrimSpace(addr)
	}

	return nil
}

func applyEnv(settings *Settings) error {
	if v := os.Getenv(envPrefix + "OUTPUT"); v != "" {
		settings.OutputMode = strings.ToLower(v)
	}
	if v := os.Getenv(envPrefix + "VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.Verbose = b
		}
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			settings.Timeout = d
		}
	}
	if v := os.Getenv(envPrefix + "ROUTEBOOK_PATH"); v != "" {
		settings.RoutebookPath = v
		settings.RoutebookLockPath = lockPathFor(v)
	}
	if v := os.Getenv(envPrefix + "ROUTEBOOK_LOCK_PATH"); v != "" {
		settings.RoutebookLockPath = v
	}
	if v := os.Getenv(envPrefix + "WRAPPED_NATIVE"); v != "" {
		overrides, err := parseChainMap(v)
		if err != nil {
			return fmt.Errorf("%sWRAPPED_NATIVE: %w", envPrefix, err)
		}
		for chain, addr := range overrides {
			settings.WrappedNative[chain] = addr
		}
	}
	if v := os.Getenv(envPrefix + "SWAP_ROUTER"); v != "" {
		overrides, err := parseChainMap(v)
		if err != nil {
			return fmt.Errorf("%sSWAP_ROUTER: %w", envPrefix, err)
		}
		for chain, addr := range overrides {
			settings.SwapRouter[chain] = addr
		}
	}
	return nil
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.JSON && flags.Plain {
		return fmt.Errorf("cannot use --json and --plain together")
	}
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	settings.SelectFields = splitList(flags.Select)
	settings.ResultsOnly = flags.ResultsOnly
	if allowed := splitList(flags.EnableCommands); len(allowed) > 0 {
		settings.EnableCommands = allowed
	}
	if flags.Verbose {
		settings.Verbose = true
	}
	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("parse --timeout: %w", err)
		}
		settings.Timeout = d
	}
	if strings.TrimSpace(flags.RoutebookPath) != "" {
		settings.RoutebookPath = flags.RoutebookPath
		settings.RoutebookLockPath = lockPathFor(flags.RoutebookPath)
	}

	if settings.OutputMode != "json" && settings.OutputMode != "plain" {
		return fmt.Errorf("output must be json or plain")
	}

	return nil
}

// parseChainMap reads "chain=address" pairs separated by commas.
func parseChainMap(raw string) (map[string]string, error) {
	out := map[string]string{}
	for _, part := range splitList(raw) {
		chain, addr, ok := strings.Cut(part, "=")
		chain, addr = strings.TrimSpace(chain), strings.TrimSpace(addr)
		if !ok || chain == "" || addr == "" {
			return nil, fmt.Errorf("expected chain=address, got %q", part)
		}
		out[strings.ToLower(chain)] = addr
	}
	return out, nil
}

func lockPathFor(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".lock"
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
