package storage

import (
	"context"

	"adam-dashboard/internal/domain"
)

// AgentStore provides access to agents storage.
type AgentStore interface {
	// Insert adds a new agent. Returns ErrDuplicateKey if agent_id exists.
	Insert(ctx context.Context, a *domain.Agent) error

	// GetByID retrieves an agent by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, agentID string) (*domain.Agent, error)

	// List retrieves all agents ordered by creation time ASC.
	List(ctx context.Context) ([]*domain.Agent, error)

	// UpdateStatus sets status and updated_at. Returns ErrNotFound if not exists.
	UpdateStatus(ctx context.Context, agentID string, status domain.AgentStatus, updatedAtMs int64) error
}

// TradeStore provides access to trades storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tradeID string) (*domain.Trade, error)

	// GetByAgentID retrieves all trades for an agent, ordered by executed_at ASC.
	GetByAgentID(ctx context.Context, agentID string) ([]*domain.Trade, error)

	// GetAll retrieves all trades, ordered by executed_at ASC.
	GetAll(ctx context.Context) ([]*domain.Trade, error)
}

// EquityTimeseriesStore provides access to equity_timeseries storage.
type EquityTimeseriesStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (portfolio_id, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.EquityPoint) error

	// GetByPortfolioID retrieves all points for a portfolio, ordered by timestamp ASC.
	GetByPortfolioID(ctx context.Context, portfolioID string) ([]*domain.EquityPoint, error)

	// GetByTimeRange retrieves points for a portfolio within [start, end] (inclusive, ms).
	GetByTimeRange(ctx context.Context, portfolioID string, start, end int64) ([]*domain.EquityPoint, error)
}

// PriceTimeseriesStore provides access to price_timeseries storage.
type PriceTimeseriesStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (symbol, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.PricePoint) error

	// GetByTimeRange retrieves points for a symbol within [start, end] (inclusive, ms).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.PricePoint, error)

	// Latest retrieves the most recent point for a symbol. Returns ErrNotFound if none.
	Latest(ctx context.Context, symbol string) (*domain.PricePoint, error)
}
