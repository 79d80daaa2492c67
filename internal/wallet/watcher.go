package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/observability"
)

// ErrFundingTimeout is returned when a wallet is not funded in time.
var ErrFundingTimeout = errors.New("funding not detected before timeout")

// Funding is the outcome of one balance poll.
type Funding struct {
	Chain     domain.Chain    `json:"chain"`
	Address   string          `json:"address"`
	Balance   decimal.Decimal `json:"balance"`
	Target    decimal.Decimal `json:"target"`
	Funded    bool            `json:"funded"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Watcher polls a wallet until its balance reaches a target.
type Watcher struct {
	source   BalanceSource
	interval time.Duration
	timeout  time.Duration
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewWatcher creates a Watcher. Zero interval/timeout use 15s / 30m.
func NewWatcher(src BalanceSource, interval, timeout time.Duration, log logrus.FieldLogger) *Watcher {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Watcher{
		source:   src,
		interval: interval,
		timeout:  timeout,
		log:      log,
		now:      time.Now,
	}
}

// Check polls the balance once.
func (w *Watcher) Check(ctx context.Context, chain domain.Chain, address string, target decimal.Decimal) (*Funding, error) {
	bal, err := w.source.Balance(ctx, chain, address)
	if err != nil {
		observability.RecordFundingPoll(chain.String(), "error")
		return nil, err
	}
	f := &Funding{
		Chain:     chain,
		Address:   address,
		Balance:   bal,
		Target:    target,
		Funded:    bal.GreaterThanOrEqual(target),
		CheckedAt: w.now().UTC(),
	}
	outcome := "pending"
	if f.Funded {
		outcome = "funded"
	}
	observability.RecordFundingPoll(chain.String(), outcome)
	return f, nil
}

// Wait polls every interval until the balance reaches target, the timeout
// elapses or ctx is done. Poll errors are logged and retried.
func (w *Watcher) Wait(ctx context.Context, chain domain.Chain, address string, target decimal.Decimal) (*Funding, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	log := w.log.WithFields(logrus.Fields{"chain": chain, "address": address, "target": target.String()})
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		f, err := w.Check(ctx, chain, address, target)
		switch {
		case err == nil && f.Funded:
			log.WithField("balance", f.Balance.String()).Info("wallet funded")
			return f, nil
		case err != nil && ctx.Err() == nil:
			log.WithError(err).Warn("balance poll failed")
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrFundingTimeout, address)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
