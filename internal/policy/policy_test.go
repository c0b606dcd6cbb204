package policy

import (
	"testing"

	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
)

func TestCheckCommandAllowed(t *testing.T) {
	if err := CheckCommandAllowed(nil, "route build"); err != nil {
		t.Fatalf("unexpected error with empty allowlist: %v", err)
	}
	if err := CheckCommandAllowed([]string{"route build"}, "Route  Build"); err != nil {
		t.Fatalf("expected command to be allowed: %v", err)
	}
	if err := CheckCommandAllowed([]string{"path"}, "path decode"); err != nil {
		t.Fatalf("expected group entry to allow subcommand: %v", err)
	}
	err := CheckCommandAllowed([]string{"route"}, "routebook list")
	if !clierr.IsCode(err, clierr.CodeBlocked) {
		t.Fatalf("expected prefix match to respect word boundaries, got %v", err)
	}
	if err := CheckCommandAllowed([]string{"chains list", " "}, "payments pull"); !clierr.IsCode(err, clierr.CodeBlocked) {
		t.Fatalf("expected command to be blocked, got %v", err)
	}
}
