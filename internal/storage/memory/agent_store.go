package memory

import (
	"context"
	"sort"
	"sync"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

// AgentStore is an in-memory implementation of storage.AgentStore.
type AgentStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Agent
}

// NewAgentStore creates a new in-memory agent store.
func NewAgentStore() *AgentStore {
	return &AgentStore{
		data: make(map[string]*domain.Agent),
	}
}

// Insert adds a new agent. Returns ErrDuplicateKey if agent_id exists.
func (s *AgentStore) Insert(_ context.Context, a *domain.Agent) error {
	if a == nil || a.AgentID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.AgentID]; exists {
		return storage.ErrDuplicateKey
	}
	agentCopy := *a
	s.data[a.AgentID] = &agentCopy
	return nil
}

// GetByID retrieves an agent by its ID.
func (s *AgentStore) GetByID(_ context.Context, agentID string) (*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[agentID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	agentCopy := *a
	return &agentCopy, nil
}

// List retrieves all agents ordered by creation time.
func (s *AgentStore) List(_ context.Context) ([]*domain.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Agent, 0, len(s.data))
	for _, a := range s.data {
		agentCopy := *a
		result = append(result, &agentCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAtMs != result[j].CreatedAtMs {
			return result[i].CreatedAtMs < result[j].CreatedAtMs
		}
		return result[i].AgentID < result[j].AgentID
	})

	return result, nil
}

// UpdateStatus sets status and updated_at.
func (s *AgentStore) UpdateStatus(_ context.Context, agentID string, status domain.AgentStatus, updatedAtMs int64) error {
	if !status.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.data[agentID]
	if !ok {
		return storage.ErrNotFound
	}
	a.Status = status
	a.UpdatedAtMs = updatedAtMs
	return nil
}

var _ storage.AgentStore = (*AgentStore)(nil)
