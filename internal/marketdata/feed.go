package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/observability"
)

// Tick is one live price update.
type Tick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	TsMs   int64   `json:"ts"`
}

// PricePoint converts the tick for the price store.
func (t Tick) PricePoint() *domain.PricePoint {
	return &domain.PricePoint{
		Symbol:      t.Symbol,
		TimestampMs: t.TsMs,
		Price:       t.Price,
		Source:      "feed",
	}
}

// FeedConfig configures Feed behavior.
type FeedConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// Buffer is the capacity of the ticks channel.
	Buffer int
}

// DefaultFeedConfig returns default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      20 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		Buffer:            1024,
	}
}

type subscribeMessage struct {
	Op      string   `json:"op"`
	Symbols []string `json:"symbols"`
}

// Feed streams price ticks for a fixed symbol set.
type Feed struct {
	endpoint string
	symbols  []string
	config   FeedConfig
	log      logrus.FieldLogger

	ticks     chan Tick
	connected atomic.Bool
	dropped   atomic.Uint64
}

// NewFeed creates a feed. Call Run to connect.
func NewFeed(endpoint string, symbols []string, config *FeedConfig, log logrus.FieldLogger) *Feed {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	syms := make([]string, 0, len(symbols))
	for _, s := range symbols {
		syms = append(syms, strings.ToUpper(s))
	}
	return &Feed{
		endpoint: endpoint,
		symbols:  syms,
		config:   cfg,
		log:      log.WithField("component", "feed"),
		ticks:    make(chan Tick, cfg.Buffer),
	}
}

// Ticks returns the tick stream. It is closed when Run returns.
func (f *Feed) Ticks() <-chan Tick {
	return f.ticks
}

// Connected reports whether a websocket session is live.
func (f *Feed) Connected() bool {
	return f.connected.Load()
}

// Dropped returns the number of ticks discarded because the consumer lagged.
func (f *Feed) Dropped() uint64 {
	return f.dropped.Load()
}

// Run connects, subscribes and delivers ticks until ctx is done,
// reconnecting with exponential backoff after failures.
func (f *Feed) Run(ctx context.Context) error {
	defer close(f.ticks)

	delay := f.config.ReconnectDelay
	for {
		started := time.Now()
		err := f.session(ctx)
		f.setConnected(false)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// a session that stayed up resets the backoff
		if time.Since(started) > f.config.MaxReconnectDelay {
			delay = f.config.ReconnectDelay
		}
		f.log.WithError(err).WithField("retry_in", delay).Warn("price feed disconnected")
		observability.RecordFeedReconnect()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > f.config.MaxReconnectDelay {
			delay = f.config.MaxReconnectDelay
		}
	}
}

func (f *Feed) setConnected(v bool) {
	if f.connected.Swap(v) != v {
		observability.SetFeedConnected(v)
	}
}

// session runs one connection until it fails or ctx is done.
func (f *Feed) session(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	var writeMu sync.Mutex
	write := func(fn func() error) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
		return fn()
	}

	if err := write(func() error {
		return conn.WriteJSON(subscribeMessage{Op: "subscribe", Symbols: f.symbols})
	}); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	f.setConnected(true)
	f.log.WithField("symbols", f.symbols).Info("price feed connected")

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
		return nil
	})

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// unblock ReadMessage on shutdown
	go func() {
		<-sessionCtx.Done()
		conn.Close()
	}()

	go func() {
		ticker := time.NewTicker(f.config.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-sessionCtx.Done():
				return
			case <-ticker.C:
				if err := write(func() error {
					return conn.WriteMessage(websocket.PingMessage, nil)
				}); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		tick, err := parseTick(msg)
		if err != nil {
			if !errors.Is(err, errNotTick) {
				f.log.WithError(err).Debug("ignoring malformed feed message")
			}
			continue
		}
		observability.RecordFeedTick(tick.Symbol)
		select {
		case f.ticks <- tick:
		default:
			f.dropped.Add(1)
		}
	}
}

var errNotTick = errors.New("not a tick")

// parseTick decodes {"symbol","price","ts"}. Control messages such as
// subscription acks decode without a symbol and are reported as errNotTick.
func parseTick(msg []byte) (Tick, error) {
	var t Tick
	if err := json.Unmarshal(msg, &t); err != nil {
		return Tick{}, err
	}
	if t.Symbol == "" {
		return Tick{}, errNotTick
	}
	if t.Price <= 0 || t.TsMs <= 0 {
		return Tick{}, fmt.Errorf("invalid tick %s price=%f ts=%d", t.Symbol, t.Price, t.TsMs)
	}
	t.Symbol = strings.ToUpper(t.Symbol)
	return t, nil
}
