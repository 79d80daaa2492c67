// Package portfolio turns stored trades, prices and equity snapshots into
// the series and books the dashboard displays.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/lookup"
	"adam-dashboard/internal/observability"
	"adam-dashboard/internal/series"
	"adam-dashboard/internal/storage"
)

// markLookback bounds how far back Snapshot searches for a price mark.
const markLookback = 24 * time.Hour

// SeriesResult is the data behind one chart refresh.
type SeriesResult struct {
	Range   domain.Range   `json:"range"`
	Points  domain.Series  `json:"points"`
	Summary domain.Summary `json:"summary"`
	Demo    bool           `json:"demo"`
}

// Options for creating Service.
type Options struct {
	EquityStore storage.EquityTimeseriesStore
	PriceStore  storage.PriceTimeseriesStore
	TradeStore  storage.TradeStore

	PortfolioID      string
	InitialCash      float64
	Demo             series.DemoParams
	SnapshotInterval time.Duration

	Logger logrus.FieldLogger
	Now    func() time.Time
}

// Service serves portfolio series, holdings and snapshots.
type Service struct {
	equity storage.EquityTimeseriesStore
	prices storage.PriceTimeseriesStore
	trades storage.TradeStore

	portfolioID string
	initialCash float64
	demo        series.DemoParams
	interval    time.Duration

	log logrus.FieldLogger
	now func() time.Time
}

// New creates a new Service.
func New(opts Options) *Service {
	s := &Service{
		equity:      opts.EquityStore,
		prices:      opts.PriceStore,
		trades:      opts.TradeStore,
		portfolioID: opts.PortfolioID,
		initialCash: opts.InitialCash,
		demo:        opts.Demo,
		interval:    opts.SnapshotInterval,
		log:         opts.Logger,
		now:         opts.Now,
	}
	if s.portfolioID == "" {
		s.portfolioID = "default"
	}
	if s.demo == (series.DemoParams{}) {
		s.demo = series.DefaultDemo
	}
	if s.interval <= 0 {
		s.interval = time.Minute
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// PortfolioID returns the default portfolio.
func (s *Service) PortfolioID() string {
	return s.portfolioID
}

// SeriesFor returns the equity series for r. An empty store window falls
// back to the demo waveform; 1H is always resampled to one-minute steps.
func (s *Service) SeriesFor(ctx context.Context, portfolioID string, r domain.Range) (*SeriesResult, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRange, string(r))
	}
	if portfolioID == "" {
		portfolioID = s.portfolioID
	}

	now := s.now()
	points, err := s.load(ctx, portfolioID, r, now)
	if err != nil {
		return nil, fmt.Errorf("load equity %s: %w", portfolioID, err)
	}

	data := domain.EquitySeries(points)
	demo := len(data) == 0
	if demo {
		src := r
		if r == domain.Range1H {
			src = domain.Range24H
		}
		data = series.Demo(src, now, s.demo)
		observability.RecordDemoFallback(r.String())
		s.log.WithFields(logrus.Fields{"portfolio": portfolioID, "range": r}).Debug("no equity snapshots, serving demo series")
	}
	if r == domain.Range1H {
		data = series.SynthesizeLastHour(data)
		observability.RecordResample()
	} else {
		data = series.Sorted(data)
	}

	return &SeriesResult{
		Range:   r,
		Points:  data,
		Summary: series.BuildSummary(data),
		Demo:    demo,
	}, nil
}

func (s *Service) load(ctx context.Context, portfolioID string, r domain.Range, now time.Time) ([]*domain.EquityPoint, error) {
	window := r.Window()
	if r == domain.Range1H {
		// wider source so the resampler has a bracketing point before the hour
		window = domain.Range24H.Window()
	}
	if window == 0 {
		return s.equity.GetByPortfolioID(ctx, portfolioID)
	}
	end := now.UnixMilli()
	return s.equity.GetByTimeRange(ctx, portfolioID, end-window.Milliseconds(), end)
}

// Holdings returns the current book marked at the latest stored prices.
func (s *Service) Holdings(ctx context.Context) (*Book, error) {
	trades, err := s.trades.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	positions, cash := aggregate(s.initialCash, trades)

	marks := make(map[string]float64, len(positions))
	for sym := range positions {
		p, err := s.prices.Latest(ctx, sym)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("latest price %s: %w", sym, err)
		}
		marks[sym] = p.Price
	}
	return markBook(s.now().UnixMilli(), positions, cash, marks), nil
}

// Snapshot values the portfolio as of at and stores one equity point.
// Only trades executed at or before at are counted, marked at the last
// price at or before at.
func (s *Service) Snapshot(ctx context.Context, at time.Time) (*domain.EquityPoint, error) {
	atMs := at.UnixMilli()
	all, err := s.trades.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	trades := make([]*domain.Trade, 0, len(all))
	for _, t := range all {
		if t.ExecutedAtMs <= atMs {
			trades = append(trades, t)
		}
	}
	positions, cash := aggregate(s.initialCash, trades)

	marks := make(map[string]float64, len(positions))
	for sym := range positions {
		prices, err := s.prices.GetByTimeRange(ctx, sym, atMs-markLookback.Milliseconds(), atMs)
		if err != nil {
			return nil, fmt.Errorf("prices %s: %w", sym, err)
		}
		if price, err := lookup.PriceAt(atMs, prices); err == nil {
			marks[sym] = price
		}
	}
	book := markBook(atMs, positions, cash, marks)

	point := &domain.EquityPoint{
		PortfolioID: s.portfolioID,
		TimestampMs: atMs,
		Value:       book.Equity,
		Cash:        book.Cash,
	}
	if err := s.equity.InsertBulk(ctx, []*domain.EquityPoint{point}); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	observability.RecordEquitySnapshot(at, point.Value)
	return point, nil
}

// Run snapshots the portfolio every interval until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.WithField("interval", s.interval).Info("portfolio snapshot loop started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			at := s.now().Truncate(time.Second)
			p, err := s.Snapshot(ctx, at)
			if err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					continue
				}
				s.log.WithError(err).Warn("equity snapshot failed")
				continue
			}
			s.log.WithFields(logrus.Fields{"equity": p.Value, "cash": p.Cash}).Debug("equity snapshot stored")
		}
	}
}
