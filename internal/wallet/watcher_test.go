package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"adam-dashboard/internal/domain"
)

type scriptedSource struct {
	mu       sync.Mutex
	balances []decimal.Decimal
	errs     []error
	calls    int
}

func (s *scriptedSource) Balance(context.Context, domain.Chain, string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return decimal.Zero, s.errs[i]
	}
	if i >= len(s.balances) {
		return s.balances[len(s.balances)-1], nil
	}
	return s.balances[i], nil
}

func TestWatcher_Check(t *testing.T) {
	src := &scriptedSource{balances: []decimal.Decimal{decimal.RequireFromString("0.05"), decimal.RequireFromString("0.1")}}
	w := NewWatcher(src, time.Millisecond, time.Second, nil)
	target := decimal.RequireFromString("0.1")

	f, err := w.Check(context.Background(), domain.ChainSolana, "addr", target)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if f.Funded {
		t.Error("0.05 should not satisfy 0.1")
	}

	f, err = w.Check(context.Background(), domain.ChainSolana, "addr", target)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !f.Funded {
		t.Error("balance equal to target should count as funded")
	}
}

func TestWatcher_WaitFunds(t *testing.T) {
	src := &scriptedSource{
		balances: []decimal.Decimal{decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(2)},
		errs:     []error{nil, errors.New("node down")},
	}
	w := NewWatcher(src, time.Millisecond, 5*time.Second, nil)

	f, err := w.Wait(context.Background(), domain.ChainEthereum, "0xabc", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !f.Funded || src.calls != 4 {
		t.Errorf("funded=%v calls=%d", f.Funded, src.calls)
	}
}

func TestWatcher_WaitTimeout(t *testing.T) {
	src := &scriptedSource{balances: []decimal.Decimal{decimal.Zero}}
	w := NewWatcher(src, time.Millisecond, 20*time.Millisecond, nil)

	_, err := w.Wait(context.Background(), domain.ChainSolana, "addr", decimal.NewFromInt(1))
	if !errors.Is(err, ErrFundingTimeout) {
		t.Errorf("expected ErrFundingTimeout, got %v", err)
	}
}

func TestWatcher_WaitCancelled(t *testing.T) {
	src := &scriptedSource{balances: []decimal.Decimal{decimal.Zero}}
	w := NewWatcher(src, time.Millisecond, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Wait(ctx, domain.ChainSolana, "addr", decimal.NewFromInt(1))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
