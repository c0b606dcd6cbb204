package policy

import (
	"strings"

	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
)

// CheckCommandAllowed enforces the --enable-commands allowlist. An entry allows its exact
// command path and every command below it, so "route" allows "route build".
func CheckCommandAllowed(allowlist []string, commandPath string) error {
	if len(allowlist) == 0 {
		return nil
	}
	normPath := normalize(commandPath)
	for _, allowed := range allowlist {
		prefix := normalize(allowed)
		if prefix == "" {
			continue
		}
		if normPath == prefix || strings.HasPrefix(normPath, prefix+" ") {
			return nil
		}
	}
	return clierr.Newf(clierr.CodeBlocked, "command %q blocked by --enable-commands policy", normPath)
}

func normalize(v string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(v)))
	return strings.Join(parts, " ")
}
