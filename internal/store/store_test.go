package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisWithClient(rdb, zap.NewNop()), mr
}

func TestSetGetJSON(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	type payload struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	require.NoError(t, st.SetJSON(ctx, "snap", payload{Name: "ear", Value: 62.4}, time.Minute))

	var got payload
	found, err := st.GetJSON(ctx, "snap", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ear", got.Name)
	assert.InDelta(t, 62.4, got.Value, 0.001)
}

func TestGetJSON_Missing(t *testing.T) {
	st, _ := newTestStore(t)

	var got map[string]any
	found, err := st.GetJSON(context.Background(), "nope", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetJSON_TTLExpires(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetJSON(ctx, "snap", map[string]string{"k": "v"}, time.Second))

	mr.FastForward(2 * time.Second)

	var got map[string]string
	found, err := st.GetJSON(ctx, "snap", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHealthCheck(t *testing.T) {
	st, mr := newTestStore(t)
	require.NoError(t, st.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, st.HealthCheck(context.Background()))
}

func TestNewRedis_PingFailure(t *testing.T) {
	_, err := NewRedis("127.0.0.1:1", 0, "", zap.NewNop())
	assert.Error(t, err)
}
