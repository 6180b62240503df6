package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/watermark"
	qb "github.com/riskibarqy/football-etl/internal/platform/querybuilder"
)

type WatermarkRepository struct {
	store *Store
}

func NewWatermarkRepository(store *Store) *WatermarkRepository {
	return &WatermarkRepository{store: store}
}

func (r *WatermarkRepository) Get(ctx context.Context, entityType string) (time.Time, bool, error) {
	query, args, err := qb.Select("value").From(entity.Metadata).
		Where(qb.Eq("key", watermark.Key(entityType))).
		ToSQL()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build get watermark query: %w", err)
	}

	var raw string
	if err := r.store.db.GetContext(ctx, &raw, r.store.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, entity.WrapStorage(err, "get watermark", entity.Metadata)
	}

	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse watermark %s=%q: %w", entityType, raw, err)
	}
	return at, true, nil
}

// Set stores at in UTC through the generic upsert.
func (r *WatermarkRepository) Set(ctx context.Context, entityType string, at time.Time) error {
	return r.store.WithinTx(ctx, func(ctx context.Context, w entity.Writer) error {
		return w.Upsert(ctx, watermark.Entry{
			Key:   watermark.Key(entityType),
			Value: at.UTC().Format(time.RFC3339Nano),
		})
	})
}
