// Package api serves the dashboard HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"adam-dashboard/internal/agents"
	"adam-dashboard/internal/chart"
	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/observability"
	"adam-dashboard/internal/portfolio"
	"adam-dashboard/internal/reporting"
	"adam-dashboard/internal/wallet"
)

// PortfolioService exposes equity series and holdings.
type PortfolioService interface {
	PortfolioID() string
	SeriesFor(ctx context.Context, portfolioID string, r domain.Range) (*portfolio.SeriesResult, error)
	Holdings(ctx context.Context) (*portfolio.Book, error)
}

// AgentService manages agents.
type AgentService interface {
	Create(ctx context.Context, d agents.Draft) (*domain.Agent, error)
	Get(ctx context.Context, id string) (*domain.Agent, error)
	List(ctx context.Context) ([]*domain.Agent, error)
	Transition(ctx context.Context, id string, to domain.AgentStatus) (*domain.Agent, error)
	CheckFunding(ctx context.Context, id string) (*wallet.Funding, error)
	RecordTrade(ctx context.Context, agentID string, in agents.TradeInput) (*domain.Trade, error)
	Trades(ctx context.Context, agentID string) ([]*domain.Trade, error)
}

// MarketSource fetches price history (nil if unavailable).
type MarketSource interface {
	FetchSeries(ctx context.Context, coinID string, r domain.Range) (domain.Series, error)
}

// ReportSource builds portfolio reports.
type ReportSource interface {
	Generate(ctx context.Context, portfolioID string) (*reporting.Report, error)
}

// WalletHealth reports reachability of the wallet RPC nodes per chain.
type WalletHealth interface {
	Health(ctx context.Context) map[domain.Chain]error
}

// FeedStatus reports live feed health (nil if no feed is configured).
type FeedStatus interface {
	Connected() bool
}

// ChartConfig holds render defaults.
type ChartConfig struct {
	DefaultWidth  int
	DefaultHeight int
	MaxDPR        float64
	Theme         string
	Location      *time.Location
}

// Deps wires the server to the application services.
type Deps struct {
	Portfolio PortfolioService
	Agents    AgentService
	Market    MarketSource
	Reports   ReportSource
	Feed      FeedStatus
	Wallets   WalletHealth

	Chart          ChartConfig
	DefaultCoin    string
	StorageBackend string

	// OnAgentCreated runs after a successful create, e.g. to start
	// funding detection.
	OnAgentCreated func(a *domain.Agent)

	Logger logrus.FieldLogger
}

// Server is the dashboard HTTP API.
type Server struct {
	httpServer *http.Server
	deps       Deps
	format     chart.Formatter
	log        logrus.FieldLogger
	startedAt  time.Time
}

// NewServer creates a new API server bound to addr.
func NewServer(addr string, d Deps) *Server {
	if d.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		d.Logger = l
	}
	if d.Chart.DefaultWidth <= 0 {
		d.Chart.DefaultWidth = 800
	}
	if d.Chart.DefaultHeight <= 0 {
		d.Chart.DefaultHeight = 320
	}
	if d.Chart.MaxDPR <= 0 {
		d.Chart.MaxDPR = chart.DefaultMaxDevicePixelRatio
	}
	s := &Server{
		deps:      d,
		format:    chart.Formatter{Loc: d.Chart.Location},
		log:       d.Logger.WithField("component", "api"),
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	s.handle(mux, "GET /health", s.handleHealth)
	mux.Handle("GET /metrics", observability.Handler())
	s.handle(mux, "GET /api/status", s.handleStatus)

	s.handle(mux, "GET /api/portfolio/series", s.handleSeries)
	s.handle(mux, "GET /api/portfolio/summary", s.handleSummary)
	s.handle(mux, "GET /api/portfolio/chart.png", s.handleChartPNG)
	s.handle(mux, "GET /api/portfolio/chart.svg", s.handleChartSVG)
	s.handle(mux, "GET /api/portfolio/hit", s.handleHit)
	s.handle(mux, "GET /api/portfolio/holdings", s.handleHoldings)
	s.handle(mux, "GET /api/portfolio/report.md", s.handleReport)
	s.handle(mux, "GET /api/portfolio/series.csv", s.handleSeriesCSV)

	s.handle(mux, "GET /api/market/series", s.handleMarketSeries)
	s.handle(mux, "POST /api/wallet/verify", s.handleWalletVerify)

	s.handle(mux, "GET /api/agents", s.handleListAgents)
	s.handle(mux, "POST /api/agents", s.handleCreateAgent)
	s.handle(mux, "GET /api/agents/{id}", s.handleGetAgent)
	s.handle(mux, "POST /api/agents/{id}/status", s.handleAgentStatus)
	s.handle(mux, "POST /api/agents/{id}/funding/check", s.handleFundingCheck)
	s.handle(mux, "GET /api/agents/{id}/trades", s.handleListTrades)
	s.handle(mux, "POST /api/agents/{id}/trades", s.handleRecordTrade)
	s.handle(mux, "GET /api/agents/{id}/trades.csv", s.handleTradesCSV)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// SetTimeouts applies read and write timeouts.
func (s *Server) SetTimeouts(read, write time.Duration) {
	s.httpServer.ReadTimeout = read
	s.httpServer.WriteTimeout = write
}

// Start begins serving HTTP requests.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.WithField("addr", ln.Addr().String()).Info("api server listening")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("api server stopped")
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// handle registers h under pattern with request metrics and logging.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		d := time.Since(start)
		observability.RecordHTTPRequest(pattern, rec.code, d)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.code,
			"duration": d,
		}).Debug("request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	s.writeJSONStatus(w, http.StatusOK, v)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("encode response")
	}
}

// GET /health: liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// StatusResponse is the JSON response for /api/status.
type StatusResponse struct {
	Status        string    `json:"status"`
	Uptime        string    `json:"uptime"`
	StartedAt     time.Time `json:"started_at"`
	Storage       string    `json:"storage"`
	PortfolioID   string    `json:"portfolio_id"`
	FeedEnabled   bool      `json:"feed_enabled"`
	FeedConnected bool      `json:"feed_connected"`
	MarketEnabled bool      `json:"market_enabled"`

	// Wallets maps chain to "ok" or the node error.
	Wallets map[string]string `json:"wallets,omitempty"`
}

const walletHealthTimeout = 5 * time.Second

// GET /api/status: runtime status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:        "running",
		Uptime:        time.Since(s.startedAt).Truncate(time.Second).String(),
		StartedAt:     s.startedAt.UTC(),
		Storage:       s.deps.StorageBackend,
		FeedEnabled:   s.deps.Feed != nil,
		MarketEnabled: s.deps.Market != nil,
	}
	if s.deps.Portfolio != nil {
		resp.PortfolioID = s.deps.Portfolio.PortfolioID()
	}
	if s.deps.Feed != nil {
		resp.FeedConnected = s.deps.Feed.Connected()
	}
	if s.deps.Wallets != nil {
		ctx, cancel := context.WithTimeout(r.Context(), walletHealthTimeout)
		defer cancel()
		health := s.deps.Wallets.Health(ctx)
		if len(health) > 0 {
			resp.Wallets = make(map[string]string, len(health))
			for chain, err := range health {
				status := "ok"
				if err != nil {
					status = err.Error()
				}
				resp.Wallets[chain.String()] = status
			}
		}
	}
	s.writeJSON(w, resp)
}
