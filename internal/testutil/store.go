package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
)

// SortFunc is a generic sort function type
type SortFunc[T any] func(i, j T) bool

// InMemoryStore implements a generic in-memory store. Lists are evaluated
// with the in-memory filter backend.
type InMemoryStore[T filter.Record] struct {
	mu     sync.RWMutex
	entity string
	items  map[string]T
}

// NewInMemoryStore creates a new InMemoryStore
func NewInMemoryStore[T filter.Record](entity string) *InMemoryStore[T] {
	return &InMemoryStore[T]{
		entity: entity,
		items:  make(map[string]T),
	}
}

func (s *InMemoryStore[T]) notFound(id string) error {
	return ierr.NewErrorf("%s %s not found", s.entity, id).
		WithHintf("%s not found", s.entity).
		WithReportableDetails(map[string]any{
			"id": id,
		}).
		Mark(ierr.ErrNotFound)
}

// Create adds a new item to the store
func (s *InMemoryStore[T]) Create(ctx context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewErrorf("%s %s already exists", s.entity, id).
			WithHintf("%s already exists", s.entity).
			Mark(ierr.ErrAlreadyExists)
	}

	s.items[id] = item
	return nil
}

// CreateUnique adds item unless an id or a stored item that conflicts
// already exists. The check and the insert happen under one lock, like a
// unique index.
func (s *InMemoryStore[T]) CreateUnique(ctx context.Context, id string, item T, conflicts func(T) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.items[id]
	if !exists {
		for _, stored := range s.items {
			if conflicts(stored) {
				exists = true
				break
			}
		}
	}
	if exists {
		return ierr.NewErrorf("%s %s already exists", s.entity, id).
			WithHintf("%s already exists", s.entity).
			Mark(ierr.ErrAlreadyExists)
	}

	s.items[id] = item
	return nil
}

// Get retrieves an item by ID
func (s *InMemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		return item, nil
	}

	var zero T
	return zero, s.notFound(id)
}

// Find returns the first item pred accepts
func (s *InMemoryStore[T]) Find(ctx context.Context, pred func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// List retrieves the items matching f, sorted and paginated
func (s *InMemoryStore[T]) List(ctx context.Context, f *filter.ListFilter, sortFn SortFunc[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.match(f)

	if sortFn != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}

	start := 0
	if f != nil {
		start = f.GetOffset()
	}
	if start >= len(result) {
		return []T{}, nil
	}
	if f == nil || f.IsUnlimited() {
		return result[start:], nil
	}

	end := start + f.GetLimit()
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], nil
}

// Count returns the total number of items matching the filter
func (s *InMemoryStore[T]) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.match(f)), nil
}

func (s *InMemoryStore[T]) match(f *filter.ListFilter) []T {
	var expr filter.Expr
	if f != nil {
		expr = f.Expr
	}

	var result []T
	for _, item := range s.items {
		if filter.Match(expr, item) {
			result = append(result, item)
		}
	}
	return result
}

// Update replaces the stored item if the stored version equals expected.
// It mirrors the guarded UPDATE the postgres repositories issue.
func (s *InMemoryStore[T]) Update(ctx context.Context, id string, item T, expected int64, versionOf func(T) int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.items[id]
	if !exists {
		return s.notFound(id)
	}
	if current := versionOf(stored); current != expected {
		return ierr.NewErrorf("%s %s was modified concurrently", s.entity, id).
			WithHint("The resource was modified since you last read it, reload and retry").
			WithVersions(expected, current).
			Mark(ierr.ErrVersionStale)
	}

	s.items[id] = item
	return nil
}

// Len returns the number of stored items
func (s *InMemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes all items from the store
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}

// byCreatedAt orders items the way list endpoints default to
func byCreatedAt[T any](f *filter.ListFilter, createdAt func(T) int64) SortFunc[T] {
	desc := f == nil || f.GetOrder() == types.OrderDesc
	return func(i, j T) bool {
		if desc {
			return createdAt(i) > createdAt(j)
		}
		return createdAt(i) < createdAt(j)
	}
}
