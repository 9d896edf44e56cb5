// Package memory holds process-local stores used when no database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"activation-service.backend/internal/domain/entities"
	domainerrors "activation-service.backend/internal/domain/errors"
)

type codeKey struct {
	code       string
	productKey string
}

// CodeStore keeps activation codes in a map keyed by (code, product key)
type CodeStore struct {
	mu     sync.RWMutex
	codes  map[codeKey]*entities.ActivationCode
	nextID int64
	now    func() time.Time
}

// NewCodeStore creates an empty code store
func NewCodeStore() *CodeStore {
	return &CodeStore{
		codes: make(map[codeKey]*entities.ActivationCode),
		now:   time.Now,
	}
}

func (s *CodeStore) Find(ctx context.Context, code, productKey string) (*entities.ActivationCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.codes[codeKey{code, productKey}]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return clone(c), nil
}

func (s *CodeStore) Create(ctx context.Context, code *entities.ActivationCode) error {
	if code.VerifyIntervalHours <= 0 {
		return domainerrors.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := codeKey{code.Code, code.ProductKey}
	if _, ok := s.codes[key]; ok {
		return domainerrors.ErrAlreadyExists
	}

	now := s.now().UTC()
	if code.CreatedAt.IsZero() {
		code.CreatedAt = now
	}
	code.UpdatedAt = now
	if code.Status == "" {
		code.Status = entities.CodeStatusActive
	}
	s.nextID++
	code.ID = s.nextID

	s.codes[key] = clone(code)
	return nil
}

func (s *CodeStore) Update(ctx context.Context, code, productKey string, update entities.ActivationCodeUpdate) error {
	if update.IsEmpty() {
		return domainerrors.ErrNothingToDo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.codes[codeKey{code, productKey}]
	if !ok {
		return domainerrors.ErrNotFound
	}
	update.Apply(c)
	c.UpdatedAt = s.now().UTC()
	return nil
}

func (s *CodeStore) Delete(ctx context.Context, code, productKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := codeKey{code, productKey}
	if _, ok := s.codes[key]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(s.codes, key)
	return nil
}

func (s *CodeStore) List(ctx context.Context) ([]*entities.ActivationCode, error) {
	return s.Search(ctx, entities.CodeSearchCriteria{})
}

func (s *CodeStore) Search(ctx context.Context, criteria entities.CodeSearchCriteria) ([]*entities.ActivationCode, error) {
	s.mu.RLock()
	items := make([]*entities.ActivationCode, 0, len(s.codes))
	for _, c := range s.codes {
		if criteria.Code != "" && !strings.Contains(c.Code, criteria.Code) {
			continue
		}
		if criteria.ProductKey != "" && !strings.Contains(c.ProductKey, criteria.ProductKey) {
			continue
		}
		if criteria.Status != "" && c.Status != criteria.Status {
			continue
		}
		items = append(items, clone(c))
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (s *CodeStore) CountActive(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, c := range s.codes {
		if c.IsActive() {
			n++
		}
	}
	return n, nil
}

func (s *CodeStore) Statistics(ctx context.Context) (*entities.CodeStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats entities.CodeStatistics
	for _, c := range s.codes {
		stats.Tally(c)
	}
	return &stats, nil
}

func clone(c *entities.ActivationCode) *entities.ActivationCode {
	cp := *c
	return &cp
}
