package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/internal/store"
	"github.com/ppaulojr/stockanalisys/pkg/model"
)

type stubBuilder struct {
	snaps atomic.Int32
}

func (b *stubBuilder) Dashboard(ctx context.Context) *model.DashboardSnapshot {
	b.snaps.Add(1)
	return &model.DashboardSnapshot{GeneratedAt: time.Now().UTC()}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.NewRedisWithClient(rdb, zap.NewNop())
}

func TestRunOnce_CachesAndFansOut(t *testing.T) {
	st := newTestStore(t)
	builder := &stubBuilder{}

	var consumed int
	sink := SinkFunc(func(ctx context.Context, snap *model.DashboardSnapshot) error {
		consumed++
		require.NotNil(t, snap)
		return nil
	})

	r := NewSnapshotRefresher(zap.NewNop(), builder, st, time.Hour, time.Minute, sink)
	r.runOnce(context.Background())

	assert.Equal(t, int32(1), builder.snaps.Load())
	assert.Equal(t, 1, consumed)

	var cached model.DashboardSnapshot
	found, err := st.GetJSON(context.Background(), SnapshotKey, &cached)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRunOnce_SinkFailureDoesNotStopOthers(t *testing.T) {
	builder := &stubBuilder{}

	var second int
	failing := SinkFunc(func(ctx context.Context, snap *model.DashboardSnapshot) error {
		return errors.New("history down")
	})
	ok := SinkFunc(func(ctx context.Context, snap *model.DashboardSnapshot) error {
		second++
		return nil
	})

	r := NewSnapshotRefresher(zap.NewNop(), builder, nil, time.Hour, time.Minute, failing, ok)
	r.runOnce(context.Background())

	assert.Equal(t, 1, second)
}

func TestStart_RunsImmediatelyAndStops(t *testing.T) {
	builder := &stubBuilder{}
	r := NewSnapshotRefresher(zap.NewNop(), builder, nil, time.Hour, time.Minute)

	done := make(chan struct{})
	go func() {
		r.Start(context.Background())
		close(done)
	}()

	// The first cycle runs before the ticker fires.
	require.Eventually(t, func() bool { return builder.snaps.Load() >= 1 }, time.Second, 10*time.Millisecond)

	r.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewSnapshotRefresher(zap.NewNop(), &stubBuilder{}, nil, time.Hour, time.Minute)

	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop on context cancel")
	}
}
