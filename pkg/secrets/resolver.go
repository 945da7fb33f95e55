package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TokenResolver resolves a single API token from a secrets Provider,
// caching the result so rotation does not require a restart.
type TokenResolver struct {
	logger   *zap.Logger
	provider Provider
	cache    *Cache[string]
	secretID string
}

// NewTokenResolver creates a resolver for the named secret. The secret is
// expected to be a JSON map with a "token" key.
func NewTokenResolver(logger *zap.Logger, provider Provider, cache *Cache[string], secretID string) *TokenResolver {
	return &TokenResolver{
		logger:   logger,
		provider: provider,
		cache:    cache,
		secretID: secretID,
	}
}

// Resolve returns the token, from cache when possible.
func (r *TokenResolver) Resolve(ctx context.Context) (string, error) {
	if tok, ok := r.cache.Get(r.secretID); ok {
		return tok, nil
	}

	values, err := r.provider.GetSecret(ctx, r.secretID)
	if err != nil {
		return "", err
	}
	tok, ok := values["token"]
	if !ok || tok == "" {
		return "", fmt.Errorf("secret [%s] has no token key", r.secretID)
	}

	r.cache.Put(r.secretID, tok)
	r.logger.Info("secrets.token_resolved", zap.String("secret_id", r.secretID))
	return tok, nil
}
