package repositories

import (
	"context"
	"time"

	"activation-service.backend/internal/domain/entities"
)

// VerificationLogRepository is the append-only audit trail. Query results
// are newest first with insertion order breaking timestamp ties.
type VerificationLogRepository interface {
	Append(ctx context.Context, entry *entities.VerificationLog) error
	Query(ctx context.Context, filter entities.LogFilter) ([]*entities.VerificationLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// CountBetween counts rows with from <= timestamp < to.
	CountBetween(ctx context.Context, from, to time.Time) (*entities.LogCounts, error)
	Count(ctx context.Context) (int64, error)
}
