package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"activation-service.backend/internal/domain/entities"
	domainerrors "activation-service.backend/internal/domain/errors"
	"activation-service.backend/internal/domain/repositories"
	"activation-service.backend/internal/infrastructure/metrics"
	"activation-service.backend/pkg/logger"
)

// AddCodeInput describes a new activation code. A zero interval means the default.
type AddCodeInput struct {
	Code                string
	ProductKey          string
	VerifyIntervalHours int
	Notes               string
}

// AdminUsecase handles code management and log maintenance
type AdminUsecase struct {
	codeRepo repositories.ActivationCodeRepository
	logRepo  repositories.VerificationLogRepository
	uow      repositories.UnitOfWork
	now      func() time.Time
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(
	codeRepo repositories.ActivationCodeRepository,
	logRepo repositories.VerificationLogRepository,
	uow repositories.UnitOfWork,
) *AdminUsecase {
	return &AdminUsecase{
		codeRepo: codeRepo,
		logRepo:  logRepo,
		uow:      uow,
		now:      time.Now,
	}
}

// SetClock replaces the time source
func (u *AdminUsecase) SetClock(now func() time.Time) {
	if now != nil {
		u.now = now
	}
}

// AddCode creates an active code
func (u *AdminUsecase) AddCode(ctx context.Context, input *AddCodeInput) (*entities.ActivationCode, error) {
	if input == nil || input.Code == "" || input.ProductKey == "" {
		return nil, domainerrors.Validation("code and product_key are required")
	}
	if len([]rune(input.Code)) > DefaultMaxCodeLength || len([]rune(input.ProductKey)) > DefaultMaxCodeLength {
		return nil, domainerrors.Validation(fmt.Sprintf("code and product_key must not exceed %d characters", DefaultMaxCodeLength))
	}

	interval := input.VerifyIntervalHours
	if interval == 0 {
		interval = entities.DefaultVerifyIntervalHours
	}
	if interval < 0 {
		return nil, domainerrors.Validation("verify_interval_hours must be positive")
	}

	code := &entities.ActivationCode{
		Code:                input.Code,
		ProductKey:          input.ProductKey,
		VerifyIntervalHours: interval,
		Status:              entities.CodeStatusActive,
	}
	if input.Notes != "" {
		code.Notes.SetValid(input.Notes)
	}

	if err := u.codeRepo.Create(ctx, code); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict(fmt.Sprintf("activation code %s already exists for %s", input.Code, input.ProductKey))
		}
		return nil, err
	}

	logger.Info(ctx, "Activation code added",
		zap.String("code", code.Code),
		zap.String("product_key", code.ProductKey),
		zap.Int("verify_interval_hours", code.VerifyIntervalHours),
	)
	return code, nil
}

// UpdateCode changes interval, notes or status of an existing code
func (u *AdminUsecase) UpdateCode(ctx context.Context, code, productKey string, update entities.ActivationCodeUpdate) (*entities.ActivationCode, error) {
	if update.IsEmpty() {
		return nil, domainerrors.Validation("no fields to update")
	}
	if update.VerifyIntervalHours != nil && *update.VerifyIntervalHours <= 0 {
		return nil, domainerrors.Validation("verify_interval_hours must be positive")
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, domainerrors.Validation(fmt.Sprintf("unknown status %q", *update.Status))
	}

	if err := u.codeRepo.Update(ctx, code, productKey, update); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, notFoundCode(code, productKey)
		}
		return nil, err
	}
	return u.codeRepo.Find(ctx, code, productKey)
}

// DeleteCode removes a code. Its verification logs are kept.
func (u *AdminUsecase) DeleteCode(ctx context.Context, code, productKey string) error {
	if err := u.codeRepo.Delete(ctx, code, productKey); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return notFoundCode(code, productKey)
		}
		return err
	}
	logger.Info(ctx, "Activation code deleted", zap.String("code", code), zap.String("product_key", productKey))
	return nil
}

func (u *AdminUsecase) ListCodes(ctx context.Context) ([]*entities.ActivationCode, error) {
	return u.codeRepo.List(ctx)
}

func (u *AdminUsecase) SearchCodes(ctx context.Context, criteria entities.CodeSearchCriteria) ([]*entities.ActivationCode, error) {
	if criteria.Status != "" && !criteria.Status.Valid() {
		return nil, domainerrors.Validation(fmt.Sprintf("unknown status %q", criteria.Status))
	}
	return u.codeRepo.Search(ctx, criteria)
}

func (u *AdminUsecase) Statistics(ctx context.Context) (*entities.CodeStatistics, error) {
	return u.codeRepo.Statistics(ctx)
}

// Logs returns verification logs newest first, at most filter.Limit (default 50)
func (u *AdminUsecase) Logs(ctx context.Context, filter entities.LogFilter) ([]*entities.VerificationLog, error) {
	if filter.Result != "" && !filter.Result.Valid() {
		return nil, domainerrors.Validation(fmt.Sprintf("unknown result %q", filter.Result))
	}
	if filter.StartTime != nil && filter.EndTime != nil && filter.EndTime.Before(*filter.StartTime) {
		return nil, domainerrors.Validation("end time is before start time")
	}
	return u.logRepo.Query(ctx, filter)
}

// CleanOldLogs deletes logs older than days (default 30) and returns how many went
func (u *AdminUsecase) CleanOldLogs(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = DefaultLogRetentionDays
	}
	cutoff := u.now().UTC().AddDate(0, 0, -days)

	deleted, err := u.logRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	metrics.AddRetentionDeleted(deleted)
	logger.Info(ctx, "Old verification logs removed",
		zap.Int("retention_days", days),
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

// SeedDemoCodes installs DemoCodes in one unit of work, skipping pairs that
// already exist. It returns the number of codes created.
func (u *AdminUsecase) SeedDemoCodes(ctx context.Context) (int, error) {
	created := 0
	err := u.uow.Do(ctx, func(ctx context.Context) error {
		for _, demo := range DemoCodes {
			code := demo
			if err := u.codeRepo.Create(ctx, &code); err != nil {
				if errors.Is(err, domainerrors.ErrAlreadyExists) {
					continue
				}
				return fmt.Errorf("seed %s: %w", demo.Code, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		logger.Info(ctx, "Demo activation codes seeded", zap.Int("created", created))
	}
	return created, nil
}

func notFoundCode(code, productKey string) *domainerrors.AppError {
	return domainerrors.NotFound(fmt.Sprintf("activation code %s not found for %s", code, productKey))
}
