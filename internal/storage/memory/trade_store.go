package memory

import (
	"context"
	"sort"
	"sync"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Trade
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[string]*domain.Trade),
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.Trade) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}
	tradeCopy := *t
	s.data[t.TradeID] = &tradeCopy
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(trades))

	// First pass: validate and check duplicates (existing + intra-batch)
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TradeID] = struct{}{}
	}

	// Second pass: insert all
	for _, t := range trades {
		tradeCopy := *t
		s.data[t.TradeID] = &tradeCopy
	}
	return nil
}

// GetByID retrieves a trade by its ID.
func (s *TradeStore) GetByID(_ context.Context, tradeID string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[tradeID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	tradeCopy := *t
	return &tradeCopy, nil
}

// GetByAgentID retrieves all trades for an agent.
func (s *TradeStore) GetByAgentID(_ context.Context, agentID string) ([]*domain.Trade, error) {
	return s.filter(func(t *domain.Trade) bool { return t.AgentID == agentID }), nil
}

// GetAll retrieves all trades.
func (s *TradeStore) GetAll(_ context.Context) ([]*domain.Trade, error) {
	return s.filter(func(*domain.Trade) bool { return true }), nil
}

func (s *TradeStore) filter(keep func(*domain.Trade) bool) []*domain.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Trade
	for _, t := range s.data {
		if keep(t) {
			tradeCopy := *t
			result = append(result, &tradeCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ExecutedAtMs != result[j].ExecutedAtMs {
			return result[i].ExecutedAtMs < result[j].ExecutedAtMs
		}
		return result[i].TradeID < result[j].TradeID
	})
	return result
}

var _ storage.TradeStore = (*TradeStore)(nil)
