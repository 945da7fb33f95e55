package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockProvider struct {
	secrets map[string]map[string]string
	calls   int
}

func (m *mockProvider) GetSecret(ctx context.Context, key string) (map[string]string, error) {
	m.calls++
	if vals, ok := m.secrets[key]; ok {
		return vals, nil
	}
	return nil, errors.New("secret not found")
}

func TestResolve(t *testing.T) {
	provider := &mockProvider{secrets: map[string]map[string]string{
		"prod/market/token": {"token": "abc123"},
	}}
	r := NewTokenResolver(zap.NewNop(), provider, NewCache[string](time.Minute), "prod/market/token")

	tok, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)
}

func TestResolve_CachesAcrossCalls(t *testing.T) {
	provider := &mockProvider{secrets: map[string]map[string]string{
		"prod/market/token": {"token": "abc123"},
	}}
	r := NewTokenResolver(zap.NewNop(), provider, NewCache[string](time.Minute), "prod/market/token")

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, provider.calls)
}

func TestResolve_MissingTokenKey(t *testing.T) {
	provider := &mockProvider{secrets: map[string]map[string]string{
		"prod/market/token": {"password": "oops"},
	}}
	r := NewTokenResolver(zap.NewNop(), provider, NewCache[string](time.Minute), "prod/market/token")

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token key")
}

func TestResolve_ProviderFailure(t *testing.T) {
	provider := &mockProvider{}
	r := NewTokenResolver(zap.NewNop(), provider, NewCache[string](time.Minute), "prod/market/token")

	_, err := r.Resolve(context.Background())
	assert.Error(t, err)
}
