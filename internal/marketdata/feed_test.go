package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func testFeedConfig() *FeedConfig {
	return &FeedConfig{
		ReconnectDelay:    10 * time.Millisecond,
		MaxReconnectDelay: 50 * time.Millisecond,
		PingInterval:      time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      time.Second,
		Buffer:            16,
	}
}

func TestFeed_SubscribeAndTicks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer c.Close()

		var sub subscribeMessage
		if err := c.ReadJSON(&sub); err != nil {
			t.Errorf("read subscribe: %v", err)
			return
		}
		if sub.Op != "subscribe" || len(sub.Symbols) != 2 || sub.Symbols[0] != "SOL" {
			t.Errorf("unexpected subscribe %+v", sub)
		}

		c.WriteJSON(map[string]any{"op": "subscribed"})
		c.WriteMessage(websocket.TextMessage, []byte("not json"))
		c.WriteJSON(Tick{Symbol: "sol", Price: 101.5, TsMs: 1710504000000})
		c.WriteJSON(Tick{Symbol: "ETH", Price: 3000, TsMs: 1710504001000})

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewFeed(wsURL(server), []string{"sol", "eth"}, testFeedConfig(), nil)
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	var got []Tick
	timeout := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case tk := <-feed.Ticks():
			got = append(got, tk)
		case <-timeout:
			t.Fatalf("timed out, got %d ticks", len(got))
		}
	}

	if got[0].Symbol != "SOL" || got[0].Price != 101.5 {
		t.Errorf("first tick = %+v", got[0])
	}
	if !feed.Connected() {
		t.Error("feed should report connected")
	}
	pp := got[1].PricePoint()
	if pp.Symbol != "ETH" || pp.TimestampMs != 1710504001000 || pp.Source != "feed" {
		t.Errorf("price point = %+v", pp)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
	if _, ok := <-feed.Ticks(); ok {
		t.Error("ticks channel should be closed")
	}
}

func TestFeed_Reconnects(t *testing.T) {
	var conns atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		n := conns.Add(1)

		var sub subscribeMessage
		if err := c.ReadJSON(&sub); err != nil {
			return
		}
		if n == 1 {
			// drop the first session right away
			return
		}
		c.WriteJSON(Tick{Symbol: "SOL", Price: 1, TsMs: 1})
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewFeed(wsURL(server), []string{"SOL"}, testFeedConfig(), nil)
	go feed.Run(ctx)

	select {
	case tk := <-feed.Ticks():
		if tk.Symbol != "SOL" {
			t.Errorf("tick = %+v", tk)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no tick after reconnect")
	}
	if conns.Load() < 2 {
		t.Errorf("connections = %d, want >= 2", conns.Load())
	}
}

func TestParseTick(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		wantErr bool
		notTick bool
	}{
		{"valid", `{"symbol":"sol","price":1.5,"ts":10}`, false, false},
		{"ack", `{"op":"subscribed"}`, true, true},
		{"zero price", `{"symbol":"SOL","price":0,"ts":10}`, true, false},
		{"garbage", `{`, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, err := parseTick([]byte(tt.msg))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.notTick != errors.Is(err, errNotTick) {
				t.Errorf("errNotTick mismatch: %v", err)
			}
			if !tt.wantErr && tk.Symbol != "SOL" {
				t.Errorf("symbol = %s", tk.Symbol)
			}
		})
	}
}
