package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"activation-service.backend/internal/domain/entities"
)

// LogStore is an append-only verification log. With a positive capacity only
// the newest capacity entries are retained.
type LogStore struct {
	mu       sync.RWMutex
	entries  []entities.VerificationLog
	capacity int
	nextID   int64
	now      func() time.Time
}

// NewLogStore creates a log store. capacity <= 0 means unbounded.
func NewLogStore(capacity int) *LogStore {
	return &LogStore{capacity: capacity, now: time.Now}
}

func (s *LogStore) Append(ctx context.Context, entry *entities.VerificationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	s.nextID++
	entry.ID = s.nextID

	s.entries = append(s.entries, *entry)
	if s.capacity > 0 && len(s.entries) > s.capacity {
		drop := len(s.entries) - s.capacity
		s.entries = append(s.entries[:0:0], s.entries[drop:]...)
	}
	return nil
}

// Query walks the log backwards so ties on timestamp come out newest insert first.
func (s *LogStore) Query(ctx context.Context, filter entities.LogFilter) ([]*entities.VerificationLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*entities.VerificationLog, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if filter.Code != "" && !strings.Contains(e.Code, filter.Code) {
			continue
		}
		if filter.Result != "" && e.Result != filter.Result {
			continue
		}
		if filter.StartTime != nil && e.Timestamp.Before(*filter.StartTime) {
			continue
		}
		if filter.EndTime != nil && e.Timestamp.After(*filter.EndTime) {
			continue
		}
		matched = append(matched, &e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if limit := filter.EffectiveLimit(); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *LogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	var deleted int64
	for _, e := range s.entries {
		if e.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

func (s *LogStore) CountBetween(ctx context.Context, from, to time.Time) (*entities.LogCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts entities.LogCounts
	for _, e := range s.entries {
		if e.Timestamp.Before(from) || !e.Timestamp.Before(to) {
			continue
		}
		counts.Total++
		switch e.Result {
		case entities.VerificationResultSuccess:
			counts.Success++
		case entities.VerificationResultFailed:
			counts.Failed++
		}
	}
	return &counts, nil
}

func (s *LogStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}
