package keys

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/semmy-space/llmkeys/internal/config"
)

func storeWith(t *testing.T, content string) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "keys.json"))
	if content != "" {
		require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0600))
	}
	return store
}

func TestResolvePrecedence(t *testing.T) {
	const keysJSON = `{"openai": "from-store", "other": "other-key"}`

	tests := []struct {
		name     string
		keys     string
		env      map[string]string
		provider string
		override string
		wantKey  string
		wantTier Tier
		wantSrc  string
	}{
		{
			name:     "store beats env",
			keys:     keysJSON,
			env:      map[string]string{"OPENAI_API_KEY": "from-env"},
			provider: "openai",
			wantKey:  "from-store",
			wantTier: TierStored,
			wantSrc:  "openai",
		},
		{
			name:     "env fallback with empty store",
			keys:     `{}`,
			env:      map[string]string{"OPENAI_API_KEY": "from-env"},
			provider: "openai",
			wantKey:  "from-env",
			wantTier: TierEnv,
			wantSrc:  "OPENAI_API_KEY",
		},
		{
			name:     "env fallback with missing file",
			env:      map[string]string{"OPENAI_API_KEY": "from-env"},
			provider: "openai",
			wantKey:  "from-env",
			wantTier: TierEnv,
			wantSrc:  "OPENAI_API_KEY",
		},
		{
			name:     "override names a stored key",
			keys:     keysJSON,
			env:      map[string]string{"OPENAI_API_KEY": "from-env"},
			provider: "openai",
			override: "other",
			wantKey:  "other-key",
			wantTier: TierAlias,
			wantSrc:  "other",
		},
		{
			name:     "override used literally",
			keys:     keysJSON,
			env:      map[string]string{"OPENAI_API_KEY": "from-env"},
			provider: "openai",
			override: "custom-key",
			wantKey:  "custom-key",
			wantTier: TierLiteral,
		},
		{
			name:     "override beats stored provider even for another provider",
			keys:     keysJSON,
			provider: "anthropic",
			override: "openai",
			wantKey:  "from-store",
			wantTier: TierAlias,
			wantSrc:  "openai",
		},
		{
			name:     "override equal to note name is literal",
			keys:     `{"// Note": "x", "openai": "from-store"}`,
			provider: "openai",
			override: NoteKey,
			wantKey:  NoteKey,
			wantTier: TierLiteral,
		},
		{
			name:     "empty stored value still counts",
			keys:     `{"openai": ""}`,
			env:      map[string]string{"OPENAI_API_KEY": "from-env"},
			provider: "openai",
			wantKey:  "",
			wantTier: TierStored,
			wantSrc:  "openai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := config.NewEnv(tt.env)
			r := NewResolver(storeWith(t, tt.keys), env.Lookup)

			res, err := r.Resolve(tt.provider, tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, res.Key)
			assert.Equal(t, tt.wantTier, res.Tier)
			assert.Equal(t, tt.wantSrc, res.Source)
		})
	}
}

func TestResolveNoKeyFound(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "variable unset", env: nil},
		{name: "variable empty", env: map[string]string{"OPENAI_API_KEY": ""}},
		{name: "other variable set", env: map[string]string{"ANTHROPIC_API_KEY": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := config.NewEnv(tt.env)
			r := NewResolver(storeWith(t, `{"anthropic": "a"}`), env.Lookup)

			_, err := r.Resolve("openai", "")
			var noKey *NoKeyFoundError
			require.True(t, errors.As(err, &noKey))
			assert.Equal(t, "openai", noKey.Provider)
			assert.Equal(t, "OPENAI_API_KEY", noKey.EnvVar)
			assert.Contains(t, err.Error(), "llm keys set openai")
			assert.Contains(t, err.Error(), "OPENAI_API_KEY")
		})
	}
}

func TestResolveCorruptStoreIsNotAbsence(t *testing.T) {
	env := config.NewEnv(map[string]string{"OPENAI_API_KEY": "from-env"})
	r := NewResolver(storeWith(t, `not json`), env.Lookup)

	for _, override := range []string{"", "other"} {
		_, err := r.Resolve("openai", override)
		var corrupt *CorruptStoreError
		assert.True(t, errors.As(err, &corrupt), "override %q", override)
	}
}

func TestResolveEnvVarOverride(t *testing.T) {
	env := config.NewEnv(map[string]string{
		"GOOGLE_API_KEY": "from-google",
		"GEMINI_API_KEY": "from-gemini",
	})
	r := NewResolver(storeWith(t, ""), env.Lookup)
	r.EnvVars = map[string]string{"gemini": "GOOGLE_API_KEY"}

	res, err := r.Resolve("gemini", "")
	require.NoError(t, err)
	assert.Equal(t, "from-google", res.Key)
	assert.Equal(t, "GOOGLE_API_KEY", res.Source)

	_, err = r.Resolve("mistral", "")
	var noKey *NoKeyFoundError
	require.True(t, errors.As(err, &noKey))
	assert.Equal(t, "MISTRAL_API_KEY", noKey.EnvVar)
}

func TestResolveNilLookup(t *testing.T) {
	r := NewResolver(storeWith(t, ""), nil)
	_, err := r.Resolve("openai", "")
	var noKey *NoKeyFoundError
	assert.True(t, errors.As(err, &noKey))
}

func TestResolveLogsTierWithoutSecret(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	env := config.NewEnv(map[string]string{"OPENAI_API_KEY": "sk-very-secret"})
	r := NewResolver(storeWith(t, ""), env.Lookup)
	r.Logger = zap.New(core)

	_, err := r.Resolve("openai", "")
	require.NoError(t, err)

	entries := logs.FilterMessage("resolved key from environment").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "openai", fields["provider"])
	assert.Equal(t, "OPENAI_API_KEY", fields["env"])
	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			assert.NotEqual(t, "sk-very-secret", v)
		}
	}
}

func TestEnvVarName(t *testing.T) {
	tests := []struct {
		provider string
		expected string
	}{
		{provider: "openai", expected: "OPENAI_API_KEY"},
		{provider: "anthropic", expected: "ANTHROPIC_API_KEY"},
		{provider: "azure-openai", expected: "AZURE_OPENAI_API_KEY"},
		{provider: "my.provider v2", expected: "MY_PROVIDER_V2_API_KEY"},
		{provider: "ä", expected: "__API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			assert.Equal(t, tt.expected, EnvVarName(tt.provider))
		})
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "alias", TierAlias.String())
	assert.Equal(t, "literal", TierLiteral.String())
	assert.Equal(t, "stored", TierStored.String())
	assert.Equal(t, "env", TierEnv.String())
	assert.Equal(t, "unknown", Tier(0).String())
}
