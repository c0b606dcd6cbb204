package errors

import (
	"fmt"
	"testing"
)

func TestExitCodeAndWrapping(t *testing.T) {
	base := New(CodeChainMismatch, "pools on different chains")
	wrapped := fmt.Errorf("build route: %w", base)

	if got := ExitCode(wrapped); got != int(CodeChainMismatch) {
		t.Fatalf("unexpected exit code: %d", got)
	}
	if !IsCode(wrapped, CodeChainMismatch) {
		t.Fatal("expected chain mismatch code through wrapping")
	}
	if IsCode(wrapped, CodeRouteConstruction) {
		t.Fatal("did not expect route construction code")
	}
	if got := ExitCode(fmt.Errorf("plain")); got != int(CodeInternal) {
		t.Fatalf("expected internal exit code for untyped error, got %d", got)
	}
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("expected success exit code, got %d", got)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeMalformedPath, "decode path", fmt.Errorf("odd length"))
	if err.Error() != "decode path: odd length" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if TypeName(CodeUnsupportedFeeTier) != "unsupported_fee_tier" {
		t.Fatalf("unexpected type name: %s", TypeName(CodeUnsupportedFeeTier))
	}
}
