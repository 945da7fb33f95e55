package api

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/store"
)

// miniredisStore builds a Store backed by an in-process Redis.
func miniredisStore(t *testing.T) store.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.NewRedisWithClient(rdb, zap.NewNop())
}
