package wallet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"adam-dashboard/internal/domain"
)

func TestBalances_Health(t *testing.T) {
	sol := rpcServer(t, func(req rpcRequest) any {
		if req.Method != "getSlot" {
			t.Errorf("solana method = %s, want getSlot", req.Method)
		}
		return 42
	})
	evm := rpcServer(t, func(req rpcRequest) any {
		if req.Method != "eth_blockNumber" {
			t.Errorf("evm method = %s, want eth_blockNumber", req.Method)
		}
		return "0x10"
	})
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(down.Close)

	b := NewBalances().
		Set(domain.ChainSolana, NewClient(sol.URL)).
		Set(domain.ChainEthereum, NewClient(evm.URL)).
		Set(domain.ChainBase, NewClient(down.URL, WithMaxRetries(0)))

	health := b.Health(context.Background())
	if len(health) != 3 {
		t.Fatalf("health entries = %d, want 3", len(health))
	}
	if err := health[domain.ChainSolana]; err != nil {
		t.Errorf("solana: %v", err)
	}
	if err := health[domain.ChainEthereum]; err != nil {
		t.Errorf("ethereum: %v", err)
	}
	if health[domain.ChainBase] == nil {
		t.Error("base: expected error from failing node")
	}

	chains := b.Chains()
	want := []domain.Chain{domain.ChainBase, domain.ChainEthereum, domain.ChainSolana}
	for i := range want {
		if chains[i] != want[i] {
			t.Errorf("Chains() = %v, want %v", chains, want)
			break
		}
	}
}

func TestBalances_HealthEmpty(t *testing.T) {
	if h := NewBalances().Health(context.Background()); len(h) != 0 {
		t.Errorf("health = %v, want empty", h)
	}
}
