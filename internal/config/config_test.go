package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	for _, key := range []string{"OUTPUT", "VERBOSE", "TIMEOUT", "ROUTEBOOK_PATH", "ROUTEBOOK_LOCK_PATH", "WRAPPED_NATIVE", "SWAP_ROUTER"} {
		t.Setenv(envPrefix+key, "")
	}
	return tmp
}

func TestLoadPrecedenceFlagsOverEnvOverFile(t *testing.T) {
	tmp := isolate(t)
	configPath := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(configPath, []byte("output: plain\ntimeout: 3s\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SWAPROUTER_OUTPUT", "json")
	t.Setenv("SWAPROUTER_TIMEOUT", "4s")
	flags := GlobalFlags{ConfigPath: configPath, Plain: true, Timeout: "5s"}
	settings, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.OutputMode != "plain" {
		t.Fatalf("expected flag to win, got output=%s", settings.OutputMode)
	}
	if settings.Timeout != 5*time.Second {
		t.Fatalf("expected timeout from flags, got %s", settings.Timeout)
	}

	settings, err = Load(GlobalFlags{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.OutputMode != "json" || settings.Timeout != 4*time.Second {
		t.Fatalf("expected env to win over file, got output=%s timeout=%s", settings.OutputMode, settings.Timeout)
	}
}

func TestLoadMutuallyExclusiveOutputFlags(t *testing.T) {
	isolate(t)
	_, err := Load(GlobalFlags{JSON: true, Plain: true})
	if err == nil {
		t.Fatal("expected error with --json and --plain")
	}
}

func TestLoadDefaults(t *testing.T) {
	tmp := isolate(t)
	settings, err := Load(GlobalFlags{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.OutputMode != "json" || settings.Verbose {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
	wantDB := filepath.Join(tmp, "data", "swaprouter", "routes.db")
	if settings.RoutebookPath != wantDB || settings.RoutebookLockPath != filepath.Join(tmp, "data", "swaprouter", "routes.lock") {
		t.Fatalf("unexpected routebook paths: %s %s", settings.RoutebookPath, settings.RoutebookLockPath)
	}
}

func TestWrappedNativeOverrides(t *testing.T) {
	tmp := isolate(t)
	configPath := filepath.Join(tmp, "config.yaml")
	body := "wrapped_native:\n  Rootstock: \"0x0000000000000000000000000000000000000aaa\"\n  \"31\": \"0x0000000000000000000000000000000000000bbb\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SWAPROUTER_WRAPPED_NATIVE", "31=0x0000000000000000000000000000000000000ccc")

	settings, err := Load(GlobalFlags{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.WrappedNative["rootstock"] != "0x0000000000000000000000000000000000000aaa" {
		t.Fatalf("expected file override, got %+v", settings.WrappedNative)
	}
	if settings.WrappedNative["31"] != "0x0000000000000000000000000000000000000ccc" {
		t.Fatalf("expected env override to win, got %+v", settings.WrappedNative)
	}

	t.Setenv("SWAPROUTER_WRAPPED_NATIVE", "not-a-pair")
	if _, err := Load(GlobalFlags{ConfigPath: configPath}); err == nil {
		t.Fatal("expected malformed env override to fail")
	}
}

func TestSwapRouterOverrides(t *testing.T) {
	tmp := isolate(t)
	configPath := filepath.Join(tmp, "config.yaml")
	body := "swap_router:\n  Rootstock: \"0x0000000000000000000000000000000000000aaa\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SWAPROUTER_SWAP_ROUTER", "31=0x0000000000000000000000000000000000000bbb")

	settings, err := Load(GlobalFlags{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.SwapRouter["rootstock"] != "0x0000000000000000000000000000000000000aaa" || settings.SwapRouter["31"] != "0x0000000000000000000000000000000000000bbb" {
		t.Fatalf("unexpected swap router overrides: %+v", settings.SwapRouter)
	}

	t.Setenv("SWAPROUTER_SWAP_ROUTER", "rootstock")
	if _, err := Load(GlobalFlags{ConfigPath: configPath}); err == nil {
		t.Fatal("expected malformed env override to fail")
	}
}

func TestRoutebookFlagDerivesLockPath(t *testing.T) {
	tmp := isolate(t)
	db := filepath.Join(tmp, "custom", "book.db")
	settings, err := Load(GlobalFlags{RoutebookPath: db, Verbose: true, EnableCommands: "route build, chains"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.RoutebookLockPath != filepath.Join(tmp, "custom", "book.lock") {
		t.Fatalf("unexpected lock path %s", settings.RoutebookLockPath)
	}
	if !settings.Verbose || len(settings.EnableCommands) != 2 || settings.EnableCommands[1] != "chains" {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}
