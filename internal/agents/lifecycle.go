package agents

import (
	"errors"
	"fmt"

	"adam-dashboard/internal/domain"
)

// ErrInvalidTransition is returned for a status change the lifecycle forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

var transitions = map[domain.AgentStatus][]domain.AgentStatus{
	domain.AgentStatusAwaitingFunds: {domain.AgentStatusActive, domain.AgentStatusStopped},
	domain.AgentStatusActive:        {domain.AgentStatusPaused, domain.AgentStatusStopped},
	domain.AgentStatusPaused:        {domain.AgentStatusActive, domain.AgentStatusStopped},
}

// CanTransition reports whether from -> to is allowed.
// STOPPED is terminal.
func CanTransition(from, to domain.AgentStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to domain.AgentStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, string(to))
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
