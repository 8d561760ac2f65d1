package flags

import (
	"os"
	"strings"
)

// Provider reports whether a named capability is enabled.
type Provider interface {
	Enabled(name string) bool
}

// EnvProvider resolves flags from environment variables. A flag named
// "attractions.generate" maps to FEATURE_ATTRACTIONS_GENERATE; flags default
// to enabled unless explicitly switched off.
type EnvProvider struct{}

// NewEnvProvider constructs the provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Enabled implements Provider.
func (p *EnvProvider) Enabled(name string) bool {
	value, ok := os.LookupEnv(envKey(name))
	if !ok {
		return true
	}
	return value == "1" || strings.EqualFold(value, "true")
}

func envKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.NewReplacer(".", "_", "-", "_").Replace(key)
	return "FEATURE_" + key
}

var _ Provider = (*EnvProvider)(nil)
