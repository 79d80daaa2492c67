package agents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/idhash"
	"adam-dashboard/internal/observability"
	"adam-dashboard/internal/storage"
	"adam-dashboard/internal/wallet"
)

// FundingChecker polls wallet balances.
type FundingChecker interface {
	Check(ctx context.Context, chain domain.Chain, address string, target decimal.Decimal) (*wallet.Funding, error)
	Wait(ctx context.Context, chain domain.Chain, address string, target decimal.Decimal) (*wallet.Funding, error)
}

// Options for creating Service.
type Options struct {
	AgentStore storage.AgentStore
	TradeStore storage.TradeStore
	Funding    FundingChecker

	Logger logrus.FieldLogger
	Now    func() time.Time
	NewID  func() string
}

// Service manages agents and their trades.
type Service struct {
	agents  storage.AgentStore
	trades  storage.TradeStore
	funding FundingChecker
	log     logrus.FieldLogger
	now     func() time.Time
	newID   func() string

	// serializes read-check-write status changes
	mu sync.Mutex
}

// New creates a new Service.
func New(opts Options) *Service {
	s := &Service{
		agents:  opts.AgentStore,
		trades:  opts.TradeStore,
		funding: opts.Funding,
		log:     opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Create validates d and stores a new agent awaiting funds.
func (s *Service) Create(ctx context.Context, d Draft) (*domain.Agent, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	target, err := d.Target()
	if err != nil {
		return nil, err
	}
	address := d.WalletAddress
	if d.Chain.IsEVM() {
		address = wallet.ChecksumAddress(address)
	}

	nowMs := s.now().UnixMilli()
	a := &domain.Agent{
		AgentID:       s.newID(),
		Name:          d.Name,
		Strategy:      d.Strategy,
		Chain:         d.Chain,
		WalletAddress: address,
		FundingTarget: target.String(),
		Status:        domain.AgentStatusAwaitingFunds,
		CreatedAtMs:   nowMs,
		UpdatedAtMs:   nowMs,
	}
	if err := s.agents.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("insert agent: %w", err)
	}
	observability.RecordAgentCreated(a.Chain.String())
	s.log.WithFields(logrus.Fields{"agent": a.AgentID, "chain": a.Chain, "strategy": a.Strategy}).Info("agent created")
	return a, nil
}

// Get returns one agent.
func (s *Service) Get(ctx context.Context, id string) (*domain.Agent, error) {
	return s.agents.GetByID(ctx, id)
}

// List returns all agents.
func (s *Service) List(ctx context.Context) ([]*domain.Agent, error) {
	return s.agents.List(ctx)
}

// Transition moves an agent to status to.
func (s *Service) Transition(ctx context.Context, id string, to domain.AgentStatus) (*domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(a.Status, to); err != nil {
		return nil, err
	}
	nowMs := s.now().UnixMilli()
	if err := s.agents.UpdateStatus(ctx, id, to, nowMs); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	observability.RecordAgentStatus(string(to))
	s.log.WithFields(logrus.Fields{"agent": id, "from": a.Status, "to": to}).Info("agent status changed")

	a.Status = to
	a.UpdatedAtMs = nowMs
	return a, nil
}

// CheckFunding polls the agent wallet once and activates the agent when the
// target is reached.
func (s *Service) CheckFunding(ctx context.Context, id string) (*wallet.Funding, error) {
	a, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target, err := decimal.NewFromString(a.FundingTarget)
	if err != nil {
		return nil, fmt.Errorf("agent %s funding target: %w", id, err)
	}
	f, err := s.funding.Check(ctx, a.Chain, a.WalletAddress, target)
	if err != nil {
		return nil, err
	}
	if f.Funded && a.Status == domain.AgentStatusAwaitingFunds {
		if _, err := s.activate(ctx, id); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WatchFunding blocks until the agent wallet is funded, then activates it.
func (s *Service) WatchFunding(ctx context.Context, id string) error {
	a, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status != domain.AgentStatusAwaitingFunds {
		return nil
	}
	target, err := decimal.NewFromString(a.FundingTarget)
	if err != nil {
		return fmt.Errorf("agent %s funding target: %w", id, err)
	}
	if _, err := s.funding.Wait(ctx, a.Chain, a.WalletAddress, target); err != nil {
		return err
	}
	_, err = s.activate(ctx, id)
	return err
}

// activate is a no-op when the agent already left AWAITING_FUNDS,
// e.g. a manual check raced the watcher.
func (s *Service) activate(ctx context.Context, id string) (*domain.Agent, error) {
	a, err := s.Transition(ctx, id, domain.AgentStatusActive)
	if errors.Is(err, ErrInvalidTransition) {
		return s.agents.GetByID(ctx, id)
	}
	return a, err
}

// TradeInput is a fill reported for an agent.
type TradeInput struct {
	Symbol       string           `json:"symbol"`
	Side         domain.TradeSide `json:"side"`
	Quantity     float64          `json:"quantity"`
	Price        float64          `json:"price"`
	FeeUSD       float64          `json:"fee"`
	ExecutedAtMs int64            `json:"executedAt"`
}

// RecordTrade stores a fill for an active agent. The trade ID is derived
// from the fill, so replaying the same fill returns storage.ErrDuplicateKey.
func (s *Service) RecordTrade(ctx context.Context, agentID string, in TradeInput) (*domain.Trade, error) {
	a, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.AgentStatusActive {
		return nil, fmt.Errorf("%w: agent %s is %s", ErrInvalidTransition, agentID, a.Status)
	}

	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.Side = domain.TradeSide(strings.ToUpper(string(in.Side)))
	switch {
	case in.Symbol == "":
		return nil, fmt.Errorf("%w: symbol is required", ErrValidation)
	case !in.Side.IsValid():
		return nil, fmt.Errorf("%w: side must be BUY or SELL", ErrValidation)
	case in.Quantity <= 0 || in.Price <= 0:
		return nil, fmt.Errorf("%w: quantity and price must be positive", ErrValidation)
	case in.FeeUSD < 0:
		return nil, fmt.Errorf("%w: fee must not be negative", ErrValidation)
	}
	if in.ExecutedAtMs == 0 {
		in.ExecutedAtMs = s.now().UnixMilli()
	}

	t := &domain.Trade{
		AgentID:      agentID,
		Symbol:       in.Symbol,
		Side:         in.Side,
		Quantity:     in.Quantity,
		Price:        in.Price,
		FeeUSD:       in.FeeUSD,
		ExecutedAtMs: in.ExecutedAtMs,
	}
	t.TradeID = idhash.ForTrade(t)
	if err := s.trades.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("insert trade: %w", err)
	}
	return t, nil
}

// Trades returns an agent's trades oldest first.
func (s *Service) Trades(ctx context.Context, agentID string) ([]*domain.Trade, error) {
	if _, err := s.agents.GetByID(ctx, agentID); err != nil {
		return nil, err
	}
	return s.trades.GetByAgentID(ctx, agentID)
}
