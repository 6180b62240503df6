package watermark

import (
	"strings"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
)

const keyPrefix = "last_update_"

// Entry is a metadata key/value row.
type Entry struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

func (Entry) EntityName() string { return entity.Metadata }

// Key returns the metadata key that stores the watermark of entityType.
func Key(entityType string) string {
	return keyPrefix + strings.TrimSpace(entityType)
}
