package memory

import (
	"context"
	"errors"
	"testing"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

func TestAgentStore_InsertAndGet(t *testing.T) {
	store := NewAgentStore()
	ctx := context.Background()

	agent := &domain.Agent{
		AgentID:     "a1",
		Name:        "Momentum SOL",
		Strategy:    domain.StrategyMomentum,
		Chain:       domain.ChainSolana,
		Status:      domain.AgentStatusAwaitingFunds,
		CreatedAtMs: 1000,
	}
	if err := store.Insert(ctx, agent); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Momentum SOL" {
		t.Errorf("Name mismatch: got %s", got.Name)
	}

	// Returned value is a copy.
	got.Name = "mutated"
	again, _ := store.GetByID(ctx, "a1")
	if again.Name != "Momentum SOL" {
		t.Error("store leaked internal pointer")
	}
}

func TestAgentStore_DuplicateAndInvalid(t *testing.T) {
	store := NewAgentStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.Agent{AgentID: "a1"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := store.Insert(ctx, &domain.Agent{AgentID: "a1"}); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Agent{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestAgentStore_ListOrdered(t *testing.T) {
	store := NewAgentStore()
	ctx := context.Background()

	for _, a := range []*domain.Agent{
		{AgentID: "c", CreatedAtMs: 3000},
		{AgentID: "a", CreatedAtMs: 1000},
		{AgentID: "b", CreatedAtMs: 2000},
	} {
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 || list[0].AgentID != "a" || list[2].AgentID != "c" {
		t.Errorf("unexpected order: %v, %v, %v", list[0].AgentID, list[1].AgentID, list[2].AgentID)
	}
}

func TestAgentStore_UpdateStatus(t *testing.T) {
	store := NewAgentStore()
	ctx := context.Background()

	_ = store.Insert(ctx, &domain.Agent{AgentID: "a1", Status: domain.AgentStatusAwaitingFunds})

	if err := store.UpdateStatus(ctx, "a1", domain.AgentStatusActive, 5000); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, _ := store.GetByID(ctx, "a1")
	if got.Status != domain.AgentStatusActive || got.UpdatedAtMs != 5000 {
		t.Errorf("status not updated: %+v", got)
	}

	if err := store.UpdateStatus(ctx, "missing", domain.AgentStatusActive, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateStatus(ctx, "a1", "BOGUS", 1); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
