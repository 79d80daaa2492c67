package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

// EquityTimeseriesStore is an in-memory implementation of storage.EquityTimeseriesStore.
type EquityTimeseriesStore struct {
	mu   sync.RWMutex
	data map[string]*domain.EquityPoint // keyed by (portfolio_id, timestamp_ms)
}

// NewEquityTimeseriesStore creates a new in-memory equity timeseries store.
func NewEquityTimeseriesStore() *EquityTimeseriesStore {
	return &EquityTimeseriesStore{
		data: make(map[string]*domain.EquityPoint),
	}
}

func equityKey(portfolioID string, timestampMs int64) string {
	return fmt.Sprintf("%s|%d", portfolioID, timestampMs)
}

// InsertBulk adds multiple points. Fails entire batch on duplicate.
func (s *EquityTimeseriesStore) InsertBulk(_ context.Context, points []*domain.EquityPoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.PortfolioID == "" {
			return storage.ErrInvalidInput
		}
		key := equityKey(p.PortfolioID, p.TimestampMs)
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
		s.data[equityKey(p.PortfolioID, p.TimestampMs)] = &pointCopy
	}
	return nil
}

// GetByPortfolioID retrieves all points for a portfolio, ordered by timestamp ASC.
func (s *EquityTimeseriesStore) GetByPortfolioID(_ context.Context, portfolioID string) ([]*domain.EquityPoint, error) {
	return s.collect(portfolioID, func(int64) bool { return true }), nil
}

// GetByTimeRange retrieves points for a portfolio within [start, end] (inclusive).
func (s *EquityTimeseriesStore) GetByTimeRange(_ context.Context, portfolioID string, start, end int64) ([]*domain.EquityPoint, error) {
	return s.collect(portfolioID, func(ts int64) bool { return ts >= start && ts <= end }), nil
}

func (s *EquityTimeseriesStore) collect(portfolioID string, inRange func(int64) bool) []*domain.EquityPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EquityPoint
	for _, p := range s.data {
		if p.PortfolioID == portfolioID && inRange(p.TimestampMs) {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})
	return result
}

var _ storage.EquityTimeseriesStore = (*EquityTimeseriesStore)(nil)
