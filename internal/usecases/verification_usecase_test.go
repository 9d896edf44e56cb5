package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"activation-service.backend/internal/domain/entities"
	domainerrors "activation-service.backend/internal/domain/errors"
	"activation-service.backend/internal/infrastructure/memory"
	"activation-service.backend/internal/usecases"
)

var fixedNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newMemoryVerification(t *testing.T) (*usecases.VerificationUsecase, *memory.CodeStore, *memory.LogStore) {
	t.Helper()
	codes := memory.NewCodeStore()
	logs := memory.NewLogStore(0)
	uc := usecases.NewVerificationUsecase(codes, logs, usecases.DefaultInputLimits())
	uc.SetClock(func() time.Time { return fixedNow })
	return uc, codes, logs
}

func TestVerificationUsecase_Verify_DemoCode(t *testing.T) {
	uc, codes, logs := newMemoryVerification(t)
	ctx := context.Background()
	require.NoError(t, codes.Create(ctx, &entities.ActivationCode{Code: "DEMO_001", ProductKey: "doubao_plugin", VerifyIntervalHours: 24}))

	out, err := uc.Verify(ctx, &entities.VerifyInput{Code: "DEMO_001", ProductKey: "doubao_plugin", DeviceID: "dev-1", IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, usecases.MsgVerified, out.Message)
	require.NotNil(t, out.Data)
	assert.Equal(t, entities.CodeStatusActive, out.Data.Status)
	assert.Equal(t, 24, out.Data.VerifyIntervalHours)
	assert.Equal(t, fixedNow, out.Data.ActivatedAt)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), out.Data.NextVerifyAt)

	entries, err := logs.Query(ctx, entities.LogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entities.VerificationResultSuccess, entries[0].Result)
	assert.Equal(t, "dev-1", entries[0].DeviceID.String)
	assert.Equal(t, "10.0.0.1", entries[0].IPAddress.String)
}

func TestVerificationUsecase_Verify_UnknownCode(t *testing.T) {
	uc, _, logs := newMemoryVerification(t)
	ctx := context.Background()

	out, err := uc.Verify(ctx, &entities.VerifyInput{Code: "UNKNOWN", ProductKey: "doubao_plugin"})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Nil(t, out.Data)
	assert.Contains(t, out.Message, "mismatch")

	entries, err := logs.Query(ctx, entities.LogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entities.VerificationResultFailed, entries[0].Result)
	assert.False(t, entries[0].DeviceID.Valid)
}

func TestVerificationUsecase_Verify_InactiveAndMismatch(t *testing.T) {
	uc, codes, _ := newMemoryVerification(t)
	ctx := context.Background()
	require.NoError(t, codes.Create(ctx, &entities.ActivationCode{Code: "OFF_001", ProductKey: "doubao_plugin", VerifyIntervalHours: 24, Status: entities.CodeStatusInactive}))
	require.NoError(t, codes.Create(ctx, &entities.ActivationCode{Code: "DEMO_001", ProductKey: "doubao_plugin", VerifyIntervalHours: 24}))

	for _, in := range []*entities.VerifyInput{
		{Code: "OFF_001", ProductKey: "doubao_plugin"},
		{Code: "DEMO_001", ProductKey: "test_product"},
		{Code: "demo_001", ProductKey: "doubao_plugin"},
	} {
		out, err := uc.Verify(ctx, in)
		require.NoError(t, err)
		assert.False(t, out.Success, in.Code+"/"+in.ProductKey)
		assert.Equal(t, usecases.MsgCodeNotMatched, out.Message)
	}
}

func TestVerificationUsecase_Verify_RepeatedCallsAlwaysSucceed(t *testing.T) {
	uc, codes, logs := newMemoryVerification(t)
	ctx := context.Background()
	require.NoError(t, codes.Create(ctx, &entities.ActivationCode{Code: "TEST_001", ProductKey: "test_product", VerifyIntervalHours: 1}))

	const n = 5
	for i := 0; i < n; i++ {
		out, err := uc.Verify(ctx, &entities.VerifyInput{Code: "TEST_001", ProductKey: "test_product"})
		require.NoError(t, err)
		assert.True(t, out.Success, "call %d", i+1)
	}

	total, err := logs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), total)
}

func TestVerificationUsecase_Verify_ValidationSkipsStorage(t *testing.T) {
	codeRepo := new(MockActivationCodeRepository)
	logRepo := new(MockVerificationLogRepository)
	uc := usecases.NewVerificationUsecase(codeRepo, logRepo, usecases.DefaultInputLimits())
	ctx := context.Background()

	cases := []*entities.VerifyInput{
		{Code: "", ProductKey: "x"},
		{Code: "x", ProductKey: ""},
		{Code: strings.Repeat("A", 51), ProductKey: "doubao_plugin"},
		{Code: "DEMO_001", ProductKey: strings.Repeat("p", 51)},
		{Code: "1 UNION SELECT", ProductKey: "doubao_plugin"},
		{Code: "DEMO_001", ProductKey: "doubao_plugin", DeviceID: strings.Repeat("d", 201)},
	}
	for _, in := range cases {
		out, err := uc.Verify(ctx, in)
		assert.Nil(t, out)
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	}

	codeRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	logRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestVerificationUsecase_Verify_LogFailureIsSwallowed(t *testing.T) {
	codeRepo := new(MockActivationCodeRepository)
	logRepo := new(MockVerificationLogRepository)
	uc := usecases.NewVerificationUsecase(codeRepo, logRepo, usecases.DefaultInputLimits())
	uc.SetClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	codeRepo.On("Find", ctx, "DEMO_001", "doubao_plugin").
		Return(&entities.ActivationCode{Code: "DEMO_001", ProductKey: "doubao_plugin", VerifyIntervalHours: 24, Status: entities.CodeStatusActive}, nil).Once()
	logRepo.On("Append", ctx, mock.AnythingOfType("*entities.VerificationLog")).Return(errors.New("disk full")).Once()

	out, err := uc.Verify(ctx, &entities.VerifyInput{Code: "DEMO_001", ProductKey: "doubao_plugin"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	logRepo.AssertExpectations(t)
}

func TestVerificationUsecase_Verify_StorageErrorPropagates(t *testing.T) {
	codeRepo := new(MockActivationCodeRepository)
	logRepo := new(MockVerificationLogRepository)
	uc := usecases.NewVerificationUsecase(codeRepo, logRepo, usecases.DefaultInputLimits())
	ctx := context.Background()

	storeErr := errors.New("database is locked")
	codeRepo.On("Find", ctx, "DEMO_001", "doubao_plugin").Return(nil, storeErr).Once()
	logRepo.On("Append", ctx, mock.MatchedBy(func(e *entities.VerificationLog) bool {
		return e.Result == entities.VerificationResultFailed
	})).Return(nil).Once()

	out, err := uc.Verify(ctx, &entities.VerifyInput{Code: "DEMO_001", ProductKey: "doubao_plugin"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, storeErr)
	logRepo.AssertExpectations(t)
}

func TestVerificationUsecase_GetStats(t *testing.T) {
	uc, codes, logs := newMemoryVerification(t)
	ctx := context.Background()

	stats, err := uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.StatsSnapshot{}, *stats)

	require.NoError(t, codes.Create(ctx, &entities.ActivationCode{Code: "DEMO_001", ProductKey: "doubao_plugin", VerifyIntervalHours: 24}))
	require.NoError(t, logs.Append(ctx, &entities.VerificationLog{Code: "OLD", Result: entities.VerificationResultSuccess, Timestamp: fixedNow.Add(-time.Hour)}))

	const k, m = 3, 2
	for i := 0; i < k; i++ {
		_, err := uc.Verify(ctx, &entities.VerifyInput{Code: "DEMO_001", ProductKey: "doubao_plugin"})
		require.NoError(t, err)
	}
	for i := 0; i < m; i++ {
		_, err := uc.Verify(ctx, &entities.VerifyInput{Code: "UNKNOWN", ProductKey: "doubao_plugin"})
		require.NoError(t, err)
	}

	stats, err = uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.StatsSnapshot{
		ActiveCodes:        1,
		TodayVerifications: k + m,
		TodaySuccess:       k,
		TodayFailed:        m,
		TotalLogs:          k + m + 1,
	}, *stats)
}

func TestVerificationUsecase_GetStats_Errors(t *testing.T) {
	ctx := context.Background()

	codeRepo := new(MockActivationCodeRepository)
	logRepo := new(MockVerificationLogRepository)
	uc := usecases.NewVerificationUsecase(codeRepo, logRepo, usecases.InputLimits{})
	codeRepo.On("CountActive", ctx).Return(int64(0), errors.New("boom")).Once()
	_, err := uc.GetStats(ctx)
	assert.Error(t, err)

	codeRepo.On("CountActive", ctx).Return(int64(1), nil)
	logRepo.On("CountBetween", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	_, err = uc.GetStats(ctx)
	assert.Error(t, err)

	logRepo.On("CountBetween", ctx, mock.Anything, mock.Anything).Return(&entities.LogCounts{}, nil)
	logRepo.On("Count", ctx).Return(int64(0), errors.New("boom")).Once()
	_, err = uc.GetStats(ctx)
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	in := time.Date(2024, 3, 2, 5, 30, 0, 0, loc) // 2024-03-01 21:30 UTC
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), usecases.StartOfDay(in))
}
