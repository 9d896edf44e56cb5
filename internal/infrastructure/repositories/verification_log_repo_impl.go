package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"activation-service.backend/internal/domain/entities"
	"activation-service.backend/internal/infrastructure/models"
)

// VerificationLogRepository implements the verification audit log on top of gorm.
// Timestamps are written in UTC so range filters compare consistently.
type VerificationLogRepository struct {
	db *gorm.DB
}

// NewVerificationLogRepository creates a new verification log repository
func NewVerificationLogRepository(db *gorm.DB) *VerificationLogRepository {
	return &VerificationLogRepository{db: db}
}

// Append inserts one log row
func (r *VerificationLogRepository) Append(ctx context.Context, entry *entities.VerificationLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	m := &models.VerificationLog{
		Code:      entry.Code,
		DeviceID:  sql.NullString{String: entry.DeviceID.String, Valid: entry.DeviceID.Valid},
		Result:    string(entry.Result),
		Timestamp: entry.Timestamp,
		IPAddress: sql.NullString{String: entry.IPAddress.String, Valid: entry.IPAddress.Valid},
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.ID = m.ID
	return nil
}

// Query returns log rows newest first
func (r *VerificationLogRepository) Query(ctx context.Context, filter entities.LogFilter) ([]*entities.VerificationLog, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.VerificationLog{})
	if filter.Code != "" {
		query = query.Where("code LIKE ?", "%"+filter.Code+"%")
	}
	if filter.Result != "" {
		query = query.Where("result = ?", string(filter.Result))
	}
	if filter.StartTime != nil {
		query = query.Where("timestamp >= ?", filter.StartTime.UTC())
	}
	if filter.EndTime != nil {
		query = query.Where("timestamp <= ?", filter.EndTime.UTC())
	}

	var ms []models.VerificationLog
	if err := query.
		Order("timestamp DESC, id DESC").
		Limit(filter.EffectiveLimit()).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.VerificationLog, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

// DeleteOlderThan removes rows strictly older than cutoff and reports how many went
func (r *VerificationLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("timestamp < ?", cutoff.UTC()).
		Delete(&models.VerificationLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountBetween counts rows in [from, to) split by result
func (r *VerificationLogRepository) CountBetween(ctx context.Context, from, to time.Time) (*entities.LogCounts, error) {
	var counts entities.LogCounts
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.VerificationLog{}).
		Select(`COUNT(*) AS total,
			COUNT(CASE WHEN result = ? THEN 1 END) AS success,
			COUNT(CASE WHEN result = ? THEN 1 END) AS failed`,
			string(entities.VerificationResultSuccess),
			string(entities.VerificationResultFailed),
		).
		Where("timestamp >= ? AND timestamp < ?", from.UTC(), to.UTC()).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// Count returns the number of retained log rows
func (r *VerificationLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.VerificationLog{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VerificationLogRepository) toEntity(m *models.VerificationLog) *entities.VerificationLog {
	return &entities.VerificationLog{
		ID:        m.ID,
		Code:      m.Code,
		DeviceID:  null.NewString(m.DeviceID.String, m.DeviceID.Valid),
		Result:    entities.VerificationResult(m.Result),
		Timestamp: m.Timestamp,
		IPAddress: null.NewString(m.IPAddress.String, m.IPAddress.Valid),
	}
}
