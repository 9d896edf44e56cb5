package usecases_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"activation-service.backend/internal/domain/entities"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock ActivationCodeRepository
type MockActivationCodeRepository struct {
	mock.Mock
}

func (m *MockActivationCodeRepository) Find(ctx context.Context, code, productKey string) (*entities.ActivationCode, error) {
	args := m.Called(ctx, code, productKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActivationCode), args.Error(1)
}

func (m *MockActivationCodeRepository) Create(ctx context.Context, code *entities.ActivationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockActivationCodeRepository) Update(ctx context.Context, code, productKey string, update entities.ActivationCodeUpdate) error {
	args := m.Called(ctx, code, productKey, update)
	return args.Error(0)
}

func (m *MockActivationCodeRepository) Delete(ctx context.Context, code, productKey string) error {
	args := m.Called(ctx, code, productKey)
	return args.Error(0)
}

func (m *MockActivationCodeRepository) List(ctx context.Context) ([]*entities.ActivationCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ActivationCode), args.Error(1)
}

func (m *MockActivationCodeRepository) Search(ctx context.Context, criteria entities.CodeSearchCriteria) ([]*entities.ActivationCode, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ActivationCode), args.Error(1)
}

func (m *MockActivationCodeRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActivationCodeRepository) Statistics(ctx context.Context) (*entities.CodeStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CodeStatistics), args.Error(1)
}

// Mock VerificationLogRepository
type MockVerificationLogRepository struct {
	mock.Mock
}

func (m *MockVerificationLogRepository) Append(ctx context.Context, entry *entities.VerificationLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockVerificationLogRepository) Query(ctx context.Context, filter entities.LogFilter) ([]*entities.VerificationLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VerificationLog), args.Error(1)
}

func (m *MockVerificationLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVerificationLogRepository) CountBetween(ctx context.Context, from, to time.Time) (*entities.LogCounts, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LogCounts), args.Error(1)
}

func (m *MockVerificationLogRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
