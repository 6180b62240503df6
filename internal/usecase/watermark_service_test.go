package usecase

import (
	"context"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/internal/infrastructure/repository/sqlstore"
)

func TestWatermarkService_RoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	svc := NewWatermarkService(sqlstore.NewWatermarkRepository(store))
	ctx := context.Background()

	_, ok, err := svc.Get(ctx, WatermarkFixtures)
	require.NoError(t, err)
	if ok {
		t.Fatalf("expected no watermark before the first set")
	}

	at := time.Date(2024, 10, 5, 14, 30, 15, 123456789, time.FixedZone("WIB", 7*3600))
	require.NoError(t, svc.Set(ctx, WatermarkFixtures, at))

	got, ok, err := svc.Get(ctx, WatermarkFixtures)
	require.NoError(t, err)
	if !ok {
		t.Fatalf("expected watermark after set")
	}
	if !got.Equal(at) {
		t.Fatalf("unexpected watermark: got=%s want=%s", got, at)
	}

	var raw string
	require.NoError(t, store.DB().Get(&raw, store.DB().Rebind("SELECT value FROM metadata WHERE key = ?"), "last_update_fixtures"))
	if raw != "2024-10-05T07:30:15.123456789Z" {
		t.Fatalf("unexpected stored value %q", raw)
	}
}

func TestWatermarkService_RejectsEmptyEntityType(t *testing.T) {
	t.Parallel()

	svc := NewWatermarkService(sqlstore.NewWatermarkRepository(openTestStore(t)))
	ctx := context.Background()

	if _, _, err := svc.Get(ctx, "  "); !crerr.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput from get, got %v", err)
	}
	if err := svc.Set(ctx, "", time.Now()); !crerr.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput from set, got %v", err)
	}
	if err := svc.Set(ctx, WatermarkReference, time.Time{}); !crerr.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero time, got %v", err)
	}
}
