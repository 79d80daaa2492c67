package clickhouse

import (
	"context"
	"fmt"
	"time"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

// EquityTimeseriesStore implements storage.EquityTimeseriesStore using ClickHouse.
type EquityTimeseriesStore struct {
	conn *Conn
}

// NewEquityTimeseriesStore creates a new EquityTimeseriesStore.
func NewEquityTimeseriesStore(conn *Conn) *EquityTimeseriesStore {
	return &EquityTimeseriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EquityTimeseriesStore = (*EquityTimeseriesStore)(nil)

const equityExistsQuery = `
	SELECT count(*) FROM equity_timeseries
	WHERE portfolio_id = ? AND timestamp_ms = ?
`

// InsertBulk adds multiple points. Fails entire batch on duplicate (portfolio_id, timestamp_ms).
func (s *EquityTimeseriesStore) InsertBulk(ctx context.Context, points []*domain.EquityPoint) (err error) {
	defer func(t0 time.Time) { observe("insert_equity", t0, err) }(time.Now())
	if len(points) == 0 {
		return nil
	}

	type key struct {
		portfolioID string
		timestampMs int64
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.PortfolioID == "" || p.TimestampMs < 0 {
			return storage.ErrInvalidInput
		}
		k := key{p.PortfolioID, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}

		exists, err := keyExists(ctx, s.conn, equityExistsQuery, p.PortfolioID, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO equity_timeseries (portfolio_id, timestamp_ms, value, cash)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.PortfolioID, uint64(p.TimestampMs), p.Value, p.Cash); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByPortfolioID retrieves all points for a portfolio, ordered by timestamp ASC.
func (s *EquityTimeseriesStore) GetByPortfolioID(ctx context.Context, portfolioID string) (_ []*domain.EquityPoint, err error) {
	defer func(t0 time.Time) { observe("select_equity", t0, err) }(time.Now())
	rows, err := s.conn.Query(ctx, `
		SELECT portfolio_id, timestamp_ms, value, cash
		FROM equity_timeseries
		WHERE portfolio_id = ?
		ORDER BY timestamp_ms ASC
	`, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("query by portfolio id: %w", err)
	}
	defer rows.Close()

	return scanEquity(rows)
}

// GetByTimeRange retrieves points for a portfolio within [start, end] (inclusive).
func (s *EquityTimeseriesStore) GetByTimeRange(ctx context.Context, portfolioID string, start, end int64) (_ []*domain.EquityPoint, err error) {
	defer func(t0 time.Time) { observe("select_equity_range", t0, err) }(time.Now())
	if start < 0 {
		start = 0
	}
	if end < start {
		return nil, nil
	}

	rows, err := s.conn.Query(ctx, `
		SELECT portfolio_id, timestamp_ms, value, cash
		FROM equity_timeseries
		WHERE portfolio_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`, portfolioID, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanEquity(rows)
}

func scanEquity(rows chRows) ([]*domain.EquityPoint, error) {
	var points []*domain.EquityPoint

	for rows.Next() {
		var p domain.EquityPoint
		var timestampMs uint64

		if err := rows.Scan(&p.PortfolioID, &timestampMs, &p.Value, &p.Cash); err != nil {
			return nil, fmt.Errorf("scan equity row: %w", err)
		}
		p.TimestampMs = int64(timestampMs)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equity rows: %w", err)
	}
	return points, nil
}
