package store

import (
	"context"
	"sync"

	"github.com/viant/procure/service/dao"
)

// MemoryStore is a generic in-memory dao.Service keyed by K.  Records are
// listed in insertion order.  When a clone function is supplied the store
// saves and returns copies, so callers never share state with it.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keys        []K
	keySelector func(*T) K
	clone       func(*T) *T
}

// Option configures a MemoryStore.
type Option[K comparable, T any] func(*MemoryStore[K, T])

// WithClone makes the store copy records on the way in and out.
func WithClone[K comparable, T any](clone func(*T) *T) Option[K, T] {
	return func(s *MemoryStore[K, T]) { s.clone = clone }
}

// NewMemoryStore creates a store; keySelector extracts the key of a record.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, options ...Option[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *MemoryStore[K, T]) copyOf(v *T) *T {
	if s.clone == nil || v == nil {
		return v
	}
	return s.clone(v)
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.records[key] = s.copyOf(v)
	return nil
}

// Load returns a record by key.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.copyOf(v), nil
}

// Update applies fn to the stored record under the write lock; the record is
// replaced only when fn succeeds.
func (s *MemoryStore[K, T]) Update(_ context.Context, key K, fn func(*T) error) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	working := v
	if s.clone != nil {
		working = s.clone(v)
	}
	if err := fn(working); err != nil {
		return nil, err
	}
	s.records[key] = working
	return s.copyOf(working), nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	for i, candidate := range s.keys {
		if candidate == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all records; parameters are ignored, wrapping stores filter.
func (s *MemoryStore[K, T]) List(_ context.Context, _ ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.copyOf(s.records[key]))
	}
	return out, nil
}

var _ dao.Service[string, struct{ ID string }] = (*MemoryStore[string, struct{ ID string }])(nil)
