package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ppaulojr/stockanalisys/pkg/model"
)

const insertSnapshotSQL = `
INSERT INTO dashboard.snapshot_history (generated_at, source, payload)
VALUES ($1, $2, $3)`

// SnapshotWriter appends dashboard snapshots to Postgres as an
// append-only history. Failures here never affect request handling;
// the refresher logs and moves on.
type SnapshotWriter struct {
	db     *pgxpool.Pool
	logger *zap.Logger
	source string
}

func NewSnapshotWriter(db *pgxpool.Pool, logger *zap.Logger, source string) *SnapshotWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotWriter{db: db, logger: logger, source: source}
}

// Append persists one snapshot row. The payload column is jsonb so the
// full snapshot survives schema drift in the Go types.
func (w *SnapshotWriter) Append(ctx context.Context, snap *model.DashboardSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	generatedAt := snap.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	if _, err := w.db.Exec(ctx, insertSnapshotSQL, generatedAt, w.source, payload); err != nil {
		w.logger.Error("history.append_failed", zap.Error(err))
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}
