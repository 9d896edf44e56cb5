package memory

import "context"

// UnitOfWork runs fn directly. Each store operation is already atomic under
// its own lock, and a failed fn leaves earlier writes in place.
type UnitOfWork struct{}

func (UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
