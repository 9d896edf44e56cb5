package repositories

import (
	"context"

	"activation-service.backend/internal/domain/entities"
)

// ActivationCodeRepository is the code store. It holds no business rules:
// status checks belong to the caller.
type ActivationCodeRepository interface {
	// Find returns the code matching code and productKey exactly, or ErrNotFound.
	Find(ctx context.Context, code, productKey string) (*entities.ActivationCode, error)
	// Create returns ErrAlreadyExists when the (code, product key) pair is taken.
	Create(ctx context.Context, code *entities.ActivationCode) error
	Update(ctx context.Context, code, productKey string, update entities.ActivationCodeUpdate) error
	Delete(ctx context.Context, code, productKey string) error
	List(ctx context.Context) ([]*entities.ActivationCode, error)
	Search(ctx context.Context, criteria entities.CodeSearchCriteria) ([]*entities.ActivationCode, error)
	CountActive(ctx context.Context) (int64, error)
	Statistics(ctx context.Context) (*entities.CodeStatistics, error)
}
