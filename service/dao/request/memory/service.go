package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/procure/model"
	"github.com/viant/procure/service/dao"
	"github.com/viant/procure/service/dao/criteria"
)

// Service implements an in-memory, thread-safe request store.  All API
// methods work with copies to eliminate data races between goroutines.
type Service struct {
	requests map[string]*model.Request
	mux      sync.RWMutex
}

var _ dao.Service[string, model.Request] = (*Service)(nil)

func (s *Service) Save(_ context.Context, r *model.Request) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.requests[r.ID] = r.Clone()
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*model.Request, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mux.RLock()
	r, ok := s.requests[id]
	s.mux.RUnlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, ok := s.requests[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

// List returns matching requests ordered by ID.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*model.Request, error) {
	s.mux.RLock()
	result := make([]*model.Request, 0, len(s.requests))
	for _, r := range s.requests {
		if criteria.MatchRequest(r, parameters) {
			result = append(result, r.Clone())
		}
	}
	s.mux.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// New creates an empty in-memory request store.
func New() *Service {
	return &Service{requests: make(map[string]*model.Request)}
}
