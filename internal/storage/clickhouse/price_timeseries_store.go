package clickhouse

import (
	"context"
	"fmt"
	"time"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

// PriceTimeseriesStore implements storage.PriceTimeseriesStore using ClickHouse.
type PriceTimeseriesStore struct {
	conn *Conn
}

// NewPriceTimeseriesStore creates a new PriceTimeseriesStore.
func NewPriceTimeseriesStore(conn *Conn) *PriceTimeseriesStore {
	return &PriceTimeseriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceTimeseriesStore = (*PriceTimeseriesStore)(nil)

const priceExistsQuery = `
	SELECT count(*) FROM price_timeseries
	WHERE symbol = ? AND timestamp_ms = ?
`

// InsertBulk adds multiple points. Fails entire batch on duplicate (symbol, timestamp_ms).
func (s *PriceTimeseriesStore) InsertBulk(ctx context.Context, points []*domain.PricePoint) (err error) {
	defer func(t0 time.Time) { observe("insert_price", t0, err) }(time.Now())
	if len(points) == 0 {
		return nil
	}

	type key struct {
		symbol      string
		timestampMs int64
	}
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.Symbol == "" || p.TimestampMs < 0 {
			return storage.ErrInvalidInput
		}
		k := key{p.Symbol, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}

		exists, err := keyExists(ctx, s.conn, priceExistsQuery, p.Symbol, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_timeseries (symbol, timestamp_ms, price, source)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.Symbol, uint64(p.TimestampMs), p.Price, p.Source); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves points for a symbol within [start, end] (inclusive).
func (s *PriceTimeseriesStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) (_ []*domain.PricePoint, err error) {
	defer func(t0 time.Time) { observe("select_price_range", t0, err) }(time.Now())
	if start < 0 {
		start = 0
	}
	if end < start {
		return nil, nil
	}

	rows, err := s.conn.Query(ctx, `
		SELECT symbol, timestamp_ms, price, source
		FROM price_timeseries
		WHERE symbol = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`, symbol, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanPrices(rows)
}

// Latest retrieves the most recent point for a symbol. Returns ErrNotFound if none.
func (s *PriceTimeseriesStore) Latest(ctx context.Context, symbol string) (_ *domain.PricePoint, err error) {
	defer func(t0 time.Time) { observe("select_price_latest", t0, err) }(time.Now())
	rows, err := s.conn.Query(ctx, `
		SELECT symbol, timestamp_ms, price, source
		FROM price_timeseries
		WHERE symbol = ?
		ORDER BY timestamp_ms DESC
		LIMIT 1
	`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	defer rows.Close()

	points, err := scanPrices(rows)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, storage.ErrNotFound
	}
	return points[0], nil
}

func scanPrices(rows chRows) ([]*domain.PricePoint, error) {
	var points []*domain.PricePoint

	for rows.Next() {
		var p domain.PricePoint
		var timestampMs uint64

		if err := rows.Scan(&p.Symbol, &timestampMs, &p.Price, &p.Source); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		p.TimestampMs = int64(timestampMs)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price rows: %w", err)
	}
	return points, nil
}
