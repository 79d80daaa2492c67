package domain

// Agent is an automated trading bot bound to one wallet.
// Corresponds to agents table in Postgres.
type Agent struct {
	AgentID       string      `json:"id"`
	Name          string      `json:"name"`
	Strategy      Strategy    `json:"strategy"`
	Chain         Chain       `json:"chain"`
	WalletAddress string      `json:"walletAddress"`
	FundingTarget string      `json:"fundingTarget"` // decimal string in native units
	Status        AgentStatus `json:"status"`
	CreatedAtMs   int64       `json:"createdAt"`
	UpdatedAtMs   int64       `json:"updatedAt"`
}

// Strategy is the trading style an agent runs.
type Strategy string

const (
	StrategyMomentum      Strategy = "MOMENTUM"
	StrategyMeanReversion Strategy = "MEAN_REVERSION"
	StrategyMarketMaker   Strategy = "MARKET_MAKER"
	StrategyDCA           Strategy = "DCA"
)

// IsValid checks if the strategy is known.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyMomentum, StrategyMeanReversion, StrategyMarketMaker, StrategyDCA:
		return true
	}
	return false
}

// AgentStatus is the lifecycle state of an agent.
type AgentStatus string

const (
	AgentStatusAwaitingFunds AgentStatus = "AWAITING_FUNDS"
	AgentStatusActive        AgentStatus = "ACTIVE"
	AgentStatusPaused        AgentStatus = "PAUSED"
	AgentStatusStopped       AgentStatus = "STOPPED"
)

// IsValid checks if the status is known.
func (s AgentStatus) IsValid() bool {
	switch s {
	case AgentStatusAwaitingFunds, AgentStatusActive, AgentStatusPaused, AgentStatusStopped:
		return true
	}
	return false
}
