package watermark

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context, entityType string) (time.Time, bool, error)
	Set(ctx context.Context, entityType string, at time.Time) error
}
