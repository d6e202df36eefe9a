package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "atelier/contexts/finance-core/treasury/domain/errors"
	"atelier/contexts/finance-core/treasury/ports"

	"github.com/google/uuid"
)

// Store keeps custody entries in memory and maintains the running balance.
type Store struct {
	mu sync.RWMutex

	entries map[string]ports.CustodyEntry
	balance int64
}

func NewStore() *Store {
	return &Store{entries: make(map[string]ports.CustodyEntry)}
}

func (s *Store) AppendEntry(_ context.Context, entry ports.CustodyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(entry.EntryID)
	if id == "" {
		return domainerrors.ErrInvalidInput
	}
	if s.balance+entry.Amount < 0 {
		return domainerrors.ErrInvalidInput
	}
	s.entries[id] = entry
	s.balance += entry.Amount
	return nil
}

func (s *Store) Balance(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance, nil
}

func (s *Store) ListEntries(_ context.Context, limit int) ([]ports.CustodyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	items := make([]ports.CustodyEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		items = append(items, entry)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
