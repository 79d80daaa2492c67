package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

// AgentStore implements storage.AgentStore using PostgreSQL.
type AgentStore struct {
	pool *Pool
}

// NewAgentStore creates a new AgentStore.
func NewAgentStore(pool *Pool) *AgentStore {
	return &AgentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AgentStore = (*AgentStore)(nil)

const agentColumns = `
	agent_id, name, strategy, chain, wallet_address,
	funding_target, status, created_at_ms, updated_at_ms
`

// Insert adds a new agent. Returns ErrDuplicateKey if agent_id exists.
func (s *AgentStore) Insert(ctx context.Context, a *domain.Agent) error {
	if a == nil || a.AgentID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO agents (` + agentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		a.AgentID, a.Name, string(a.Strategy), string(a.Chain), a.WalletAddress,
		a.FundingTarget, string(a.Status), a.CreatedAtMs, a.UpdatedAtMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

// GetByID retrieves an agent by its ID. Returns ErrNotFound if not exists.
func (s *AgentStore) GetByID(ctx context.Context, agentID string) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE agent_id = $1`

	a, err := scanAgent(s.pool.QueryRow(ctx, query, agentID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get agent by id: %w", err)
	}
	return a, nil
}

// List retrieves all agents ordered by creation time ASC.
func (s *AgentStore) List(ctx context.Context) ([]*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents ORDER BY created_at_ms ASC, agent_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent row: %w", err)
		}
		agents = append(agents, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent rows: %w", err)
	}
	return agents, nil
}

// UpdateStatus sets status and updated_at. Returns ErrNotFound if not exists.
func (s *AgentStore) UpdateStatus(ctx context.Context, agentID string, status domain.AgentStatus, updatedAtMs int64) error {
	if !status.IsValid() {
		return storage.ErrInvalidInput
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE agents SET status = $2, updated_at_ms = $3 WHERE agent_id = $1`,
		agentID, string(status), updatedAtMs,
	)
	if err != nil {
		return fmt.Errorf("update agent status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanAgent scans a single row. Works for both pgx.Row and pgx.Rows.
func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var a domain.Agent
	var strategy, chain, status string

	err := row.Scan(
		&a.AgentID, &a.Name, &strategy, &chain, &a.WalletAddress,
		&a.FundingTarget, &status, &a.CreatedAtMs, &a.UpdatedAtMs,
	)
	if err != nil {
		return nil, err
	}

	a.Strategy = domain.Strategy(strategy)
	a.Chain = domain.Chain(chain)
	a.Status = domain.AgentStatus(status)
	return &a, nil
}
