package usecase

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/watermark"
)

const (
	WatermarkFixtures  = "fixtures"
	WatermarkReference = "reference"
)

// WatermarkService tracks when each entity type was last ingested.
type WatermarkService struct {
	repo watermark.Repository
}

func NewWatermarkService(repo watermark.Repository) *WatermarkService {
	return &WatermarkService{repo: repo}
}

func (s *WatermarkService) Get(ctx context.Context, entityType string) (_ time.Time, _ bool, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WatermarkService.Get")
	defer func() { endSpan(span, err) }()

	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return time.Time{}, false, crerr.Wrap(ErrInvalidInput, "entity type is required")
	}

	at, ok, err := s.repo.Get(ctx, entityType)
	if err != nil {
		return time.Time{}, false, crerr.Wrapf(err, "get watermark %s", entityType)
	}
	return at, ok, nil
}

func (s *WatermarkService) Set(ctx context.Context, entityType string, at time.Time) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WatermarkService.Set")
	defer func() { endSpan(span, err) }()

	entityType = strings.TrimSpace(entityType)
	if entityType == "" {
		return crerr.Wrap(ErrInvalidInput, "entity type is required")
	}
	if at.IsZero() {
		return crerr.Wrap(ErrInvalidInput, "watermark time is required")
	}

	if err := s.repo.Set(ctx, entityType, at); err != nil {
		return crerr.Wrapf(err, "set watermark %s", entityType)
	}
	return nil
}
