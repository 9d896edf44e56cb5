package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"activation-service.backend/internal/domain/entities"
	domainerrors "activation-service.backend/internal/domain/errors"
	"activation-service.backend/internal/domain/repositories"
	"activation-service.backend/internal/infrastructure/metrics"
	"activation-service.backend/pkg/logger"
)

// VerificationUsecase answers verification requests and reports daily stats.
//
// A matching active code is always accepted. The server never refuses because
// of elapsed time or earlier verifications; NextVerifyAt is advisory and the
// client decides when to come back.
type VerificationUsecase struct {
	codeRepo repositories.ActivationCodeRepository
	logRepo  repositories.VerificationLogRepository
	limits   InputLimits
	now      func() time.Time
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	codeRepo repositories.ActivationCodeRepository,
	logRepo repositories.VerificationLogRepository,
	limits InputLimits,
) *VerificationUsecase {
	return &VerificationUsecase{
		codeRepo: codeRepo,
		logRepo:  logRepo,
		limits:   limits.withDefaults(),
		now:      time.Now,
	}
}

// SetClock replaces the time source
func (u *VerificationUsecase) SetClock(now func() time.Time) {
	if now != nil {
		u.now = now
	}
}

// Limits returns the input bounds in effect
func (u *VerificationUsecase) Limits() InputLimits {
	return u.limits
}

// Verify checks one code. Invalid input returns a validation error without
// touching storage. Otherwise exactly one log entry is appended, and a missing
// or inactive code is reported as an unsuccessful outcome rather than an error.
func (u *VerificationUsecase) Verify(ctx context.Context, input *entities.VerifyInput) (*entities.VerifyOutcome, error) {
	start := time.Now()

	if err := ValidateVerifyInput(input, u.limits); err != nil {
		metrics.ObserveVerify("invalid", time.Since(start))
		return nil, err
	}

	code, err := u.codeRepo.Find(ctx, input.Code, input.ProductKey)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		logger.Error(ctx, "Failed to look up activation code",
			zap.String("code", input.Code),
			zap.String("product_key", input.ProductKey),
			zap.Error(err),
		)
		u.record(ctx, input, entities.VerificationResultFailed)
		metrics.ObserveVerify("error", time.Since(start))
		return nil, err
	}

	if code == nil || !code.IsActive() {
		u.record(ctx, input, entities.VerificationResultFailed)
		metrics.ObserveVerify(string(entities.VerificationResultFailed), time.Since(start))
		return &entities.VerifyOutcome{
			Success: false,
			Message: MsgCodeNotMatched,
		}, nil
	}

	activatedAt := u.now().UTC()
	data := &entities.VerificationData{
		Status:              entities.CodeStatusActive,
		NextVerifyAt:        code.NextVerifyAt(activatedAt),
		VerifyIntervalHours: code.VerifyIntervalHours,
		ActivatedAt:         activatedAt,
	}
	u.record(ctx, input, entities.VerificationResultSuccess)
	metrics.ObserveVerify(string(entities.VerificationResultSuccess), time.Since(start))

	return &entities.VerifyOutcome{
		Success: true,
		Data:    data,
		Message: MsgVerified,
	}, nil
}

// record appends the audit entry. Failures are logged and counted, never returned.
func (u *VerificationUsecase) record(ctx context.Context, input *entities.VerifyInput, result entities.VerificationResult) {
	entry := &entities.VerificationLog{
		Code:      input.Code,
		Result:    result,
		Timestamp: u.now().UTC(),
	}
	if input.DeviceID != "" {
		entry.DeviceID = null.StringFrom(input.DeviceID)
	}
	if input.IPAddress != "" {
		entry.IPAddress = null.StringFrom(input.IPAddress)
	}

	if err := u.logRepo.Append(ctx, entry); err != nil {
		metrics.IncVerifyLogFailure()
		logger.Warn(ctx, "Failed to record verification",
			zap.String("code", input.Code),
			zap.String("result", string(result)),
			zap.Error(err),
		)
	}
}

// GetStats returns active code count and today's verification counts. Today is
// the current UTC calendar day.
func (u *VerificationUsecase) GetStats(ctx context.Context) (*entities.StatsSnapshot, error) {
	active, err := u.codeRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	dayStart := StartOfDay(u.now())
	today, err := u.logRepo.CountBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	total, err := u.logRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.StatsSnapshot{
		ActiveCodes:        active,
		TodayVerifications: today.Total,
		TodaySuccess:       today.Success,
		TodayFailed:        today.Failed,
		TotalLogs:          total,
	}, nil
}

// StartOfDay returns midnight UTC of t's UTC day
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
