package keys

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Getter is the stored-key lookup the resolver depends on. *Store implements it.
type Getter interface {
	Get(name string) (value string, ok bool, err error)
}

// LookupFunc reads an environment variable, reporting whether it was set.
type LookupFunc func(name string) (string, bool)

// Tier identifies which rule produced a resolved key
type Tier int

const (
	// TierAlias: the override named a stored key
	TierAlias Tier = iota + 1
	// TierLiteral: the override was used as the key itself
	TierLiteral
	// TierStored: the key stored under the provider name
	TierStored
	// TierEnv: the provider's environment variable
	TierEnv
)

func (t Tier) String() string {
	switch t {
	case TierAlias:
		return "alias"
	case TierLiteral:
		return "literal"
	case TierStored:
		return "stored"
	case TierEnv:
		return "env"
	default:
		return "unknown"
	}
}

// Resolution is the key chosen for one invocation
type Resolution struct {
	Key  string
	Tier Tier
	// Source is the stored name or environment variable the key came from.
	// Empty for TierLiteral.
	Source string
}

// Resolver picks the secret to use for a provider.
type Resolver struct {
	store  Getter
	lookup LookupFunc

	// EnvVars maps a provider to a non-default environment variable name
	EnvVars map[string]string

	Logger *zap.Logger
}

// NewResolver creates a Resolver reading stored keys from store and
// environment variables through lookup.
func NewResolver(store Getter, lookup LookupFunc) *Resolver {
	return &Resolver{
		store:  store,
		lookup: lookup,
		Logger: zap.NewNop(),
	}
}

// Resolve returns the key for provider. An empty override means none was given.
//
// Precedence:
//  1. override naming a stored key: that stored value
//  2. override otherwise: the override itself
//  3. key stored under provider
//  4. the provider's environment variable, if non-empty
//
// Store errors (a corrupt file) are returned as is and never treated as a
// missing key. When nothing matches the error is a *NoKeyFoundError.
func (r *Resolver) Resolve(provider, override string) (*Resolution, error) {
	log := r.logger().With(zap.String("provider", provider))

	if override != "" {
		value, ok, err := r.store.Get(override)
		if err != nil {
			return nil, err
		}
		if ok {
			log.Debug("resolved key from override alias", zap.String("name", override))
			return &Resolution{Key: value, Tier: TierAlias, Source: override}, nil
		}
		log.Debug("using override as literal key")
		return &Resolution{Key: override, Tier: TierLiteral}, nil
	}

	value, ok, err := r.store.Get(provider)
	if err != nil {
		return nil, err
	}
	if ok {
		log.Debug("resolved stored key")
		return &Resolution{Key: value, Tier: TierStored, Source: provider}, nil
	}

	envVar := r.EnvVar(provider)
	if r.lookup != nil {
		if value, ok := r.lookup(envVar); ok && value != "" {
			log.Debug("resolved key from environment", zap.String("env", envVar))
			return &Resolution{Key: value, Tier: TierEnv, Source: envVar}, nil
		}
	}

	log.Debug("no key found", zap.String("env", envVar))
	return nil, &NoKeyFoundError{Provider: provider, EnvVar: envVar}
}

// EnvVar returns the environment variable consulted for provider
func (r *Resolver) EnvVar(provider string) string {
	if name, ok := r.EnvVars[provider]; ok && name != "" {
		return name
	}
	return EnvVarName(provider)
}

func (r *Resolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// EnvVarName derives the conventional variable for a provider:
// upper case, anything but letters and digits replaced by "_", then "_API_KEY".
// "openai" -> "OPENAI_API_KEY", "azure-openai" -> "AZURE_OPENAI_API_KEY".
func EnvVarName(provider string) string {
	name := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, provider)
	return name + "_API_KEY"
}
