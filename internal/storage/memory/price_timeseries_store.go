package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

// PriceTimeseriesStore is an in-memory implementation of storage.PriceTimeseriesStore.
type PriceTimeseriesStore struct {
	mu     sync.RWMutex
	data   map[string]*domain.PricePoint // keyed by (symbol, timestamp_ms)
	latest map[string]*domain.PricePoint
}

// NewPriceTimeseriesStore creates a new in-memory price timeseries store.
func NewPriceTimeseriesStore() *PriceTimeseriesStore {
	return &PriceTimeseriesStore{
		data:   make(map[string]*domain.PricePoint),
		latest: make(map[string]*domain.PricePoint),
	}
}

func priceKey(symbol string, timestampMs int64) string {
	return fmt.Sprintf("%s|%d", symbol, timestampMs)
}

// InsertBulk adds multiple points. Fails entire batch on duplicate.
func (s *PriceTimeseriesStore) InsertBulk(_ context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Symbol == "" {
			return storage.ErrInvalidInput
		}
		key := priceKey(p.Symbol, p.TimestampMs)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		pointCopy := *p
		s.data[priceKey(p.Symbol, p.TimestampMs)] = &pointCopy
		if cur, ok := s.latest[p.Symbol]; !ok || p.TimestampMs > cur.TimestampMs {
			s.latest[p.Symbol] = &pointCopy
		}
	}
	return nil
}

// GetByTimeRange retrieves points for a symbol within [start, end] (inclusive).
func (s *PriceTimeseriesStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for _, p := range s.data {
		if p.Symbol == symbol && p.TimestampMs >= start && p.TimestampMs <= end {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})
	return result, nil
}

// Latest retrieves the most recent point for a symbol.
func (s *PriceTimeseriesStore) Latest(_ context.Context, symbol string) (*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.latest[symbol]
	if !ok {
		return nil, storage.ErrNotFound
	}
	pointCopy := *p
	return &pointCopy, nil
}

var _ storage.PriceTimeseriesStore = (*PriceTimeseriesStore)(nil)
