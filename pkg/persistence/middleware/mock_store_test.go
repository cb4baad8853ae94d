package middleware_test

import (
	"context"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

// MockStore is a map-based store that keeps the exact snapshot it was given.
type MockStore struct {
	data map[string]*domain.ScopeSnapshot
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.ScopeSnapshot),
	}
}

func (s *MockStore) Save(ctx context.Context, sessionID string, snapshot *domain.ScopeSnapshot) error {
	s.data[sessionID] = snapshot
	return nil
}

func (s *MockStore) Load(ctx context.Context, sessionID string) (*domain.ScopeSnapshot, error) {
	snapshot, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return snapshot, nil
}

func (s *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.ScopeStore = (*MockStore)(nil)
