package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"activation-service.backend/internal/domain/entities"
	domainerrors "activation-service.backend/internal/domain/errors"
	"activation-service.backend/internal/infrastructure/models"
)

// ActivationCodeRepository implements the code store on top of gorm
type ActivationCodeRepository struct {
	db *gorm.DB
}

// NewActivationCodeRepository creates a new activation code repository
func NewActivationCodeRepository(db *gorm.DB) *ActivationCodeRepository {
	return &ActivationCodeRepository{db: db}
}

func (r *ActivationCodeRepository) Find(ctx context.Context, code, productKey string) (*entities.ActivationCode, error) {
	var m models.ActivationCode
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("code = ? AND product_key = ?", code, productKey).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *ActivationCodeRepository) Create(ctx context.Context, code *entities.ActivationCode) error {
	if code.VerifyIntervalHours <= 0 {
		return domainerrors.ErrValidation
	}

	var existing int64
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ActivationCode{}).
		Where("code = ? AND product_key = ?", code.Code, code.ProductKey).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return domainerrors.ErrAlreadyExists
	}

	now := time.Now().UTC()
	if code.CreatedAt.IsZero() {
		code.CreatedAt = now
	}
	code.UpdatedAt = now
	if code.Status == "" {
		code.Status = entities.CodeStatusActive
	}

	m := r.toModel(code)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	code.ID = m.ID
	return nil
}

func (r *ActivationCodeRepository) Update(ctx context.Context, code, productKey string, update entities.ActivationCodeUpdate) error {
	if update.IsEmpty() {
		return domainerrors.ErrNothingToDo
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if update.VerifyIntervalHours != nil {
		updates["verify_interval_hours"] = *update.VerifyIntervalHours
	}
	if update.Notes != nil {
		updates["notes"] = sql.NullString{String: *update.Notes, Valid: true}
	}
	if update.Status != nil {
		updates["status"] = string(*update.Status)
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ActivationCode{}).
		Where("code = ? AND product_key = ?", code, productKey).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ActivationCodeRepository) Delete(ctx context.Context, code, productKey string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("code = ? AND product_key = ?", code, productKey).
		Delete(&models.ActivationCode{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ActivationCodeRepository) List(ctx context.Context) ([]*entities.ActivationCode, error) {
	return r.Search(ctx, entities.CodeSearchCriteria{})
}

func (r *ActivationCodeRepository) Search(ctx context.Context, criteria entities.CodeSearchCriteria) ([]*entities.ActivationCode, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.ActivationCode{})
	if criteria.Code != "" {
		query = query.Where("code LIKE ?", "%"+criteria.Code+"%")
	}
	if criteria.ProductKey != "" {
		query = query.Where("product_key LIKE ?", "%"+criteria.ProductKey+"%")
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", string(criteria.Status))
	}

	var ms []models.ActivationCode
	if err := query.Order("created_at DESC, id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.ActivationCode, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *ActivationCodeRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ActivationCode{}).
		Where("status = ?", string(entities.CodeStatusActive)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ActivationCodeRepository) Statistics(ctx context.Context) (*entities.CodeStatistics, error) {
	var stats entities.CodeStatistics
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.ActivationCode{}).
		Select(`COUNT(*) AS total_codes,
			COUNT(CASE WHEN status = ? THEN 1 END) AS active_codes,
			COUNT(CASE WHEN status = ? THEN 1 END) AS inactive_codes,
			COUNT(CASE WHEN verify_interval_hours = ? THEN 1 END) AS hourly_codes,
			COUNT(CASE WHEN verify_interval_hours = ? THEN 1 END) AS daily_codes,
			COUNT(CASE WHEN verify_interval_hours = ? THEN 1 END) AS extended_codes`,
			string(entities.CodeStatusActive),
			string(entities.CodeStatusInactive),
			entities.HourlyIntervalHours,
			entities.DailyIntervalHours,
			entities.ExtendedIntervalHours,
		).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *ActivationCodeRepository) toEntity(m *models.ActivationCode) *entities.ActivationCode {
	return &entities.ActivationCode{
		ID:                  m.ID,
		Code:                m.Code,
		ProductKey:          m.ProductKey,
		VerifyIntervalHours: m.VerifyIntervalHours,
		Status:              entities.CodeStatus(m.Status),
		Notes:               null.NewString(m.Notes.String, m.Notes.Valid),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (r *ActivationCodeRepository) toModel(e *entities.ActivationCode) *models.ActivationCode {
	return &models.ActivationCode{
		ID:                  e.ID,
		Code:                e.Code,
		ProductKey:          e.ProductKey,
		VerifyIntervalHours: e.VerifyIntervalHours,
		Status:              string(e.Status),
		Notes:               sql.NullString{String: e.Notes.String, Valid: e.Notes.Valid},
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}
