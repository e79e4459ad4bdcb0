package connectors_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hyperwatch/src/connectors"
	"hyperwatch/src/model"
)

const testAddr = model.WalletAddress("0xc2a30212a8ddac9e123944d6e29faddce994e5f2")

func newInfoServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, connectors.Config) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := connectors.Config{
		InfoURL:     srv.URL,
		HTTPTimeout: 2 * time.Second,
	}
	return srv, cfg
}

func decodeInfoBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode info request body: %v", err)
	}
	return body
}

func TestHyperliquidClient_Positions(t *testing.T) {
	_, cfg := newInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeInfoBody(t, r)
		if body["type"] != "clearinghouseState" {
			t.Fatalf("unexpected request type %v", body["type"])
		}
		if body["user"] != testAddr.String() {
			t.Fatalf("unexpected user %v", body["user"])
		}
		_, _ = w.Write([]byte(`{
			"assetPositions": [
				{"type": "oneWay", "position": {
					"coin": "ETH", "szi": "1.5", "entryPx": "3000",
					"liquidationPx": "2500", "unrealizedPnl": "150",
					"positionValue": "4500",
					"leverage": {"type": "cross", "value": 10}
				}}
			],
			"time": 1727785800000
		}`))
	})

	c := connectors.NewHyperliquidClient(cfg)
	state, err := c.Positions(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(state.AssetPositions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(state.AssetPositions))
	}
	pos := state.AssetPositions[0].Position
	if pos.Coin != "ETH" || pos.Szi != "1.5" || pos.Leverage.Type != "cross" || pos.Leverage.Value != 10 {
		t.Fatalf("position fields mismatch: %+v", pos)
	}
}

func TestHyperliquidClient_OpenOrders(t *testing.T) {
	_, cfg := newInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeInfoBody(t, r)
		if body["type"] != "frontendOpenOrders" {
			t.Fatalf("unexpected request type %v", body["type"])
		}
		_, _ = w.Write([]byte(`[
			{"coin": "BTC", "side": "B", "sz": "0.1", "limitPx": "60000",
			 "orderType": "Limit", "triggerCondition": "N/A", "triggerPx": "0"}
		]`))
	})

	c := connectors.NewHyperliquidClient(cfg)
	orders, err := c.OpenOrders(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("OpenOrders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].Coin != "BTC" || orders[0].Side != "B" {
		t.Fatalf("orders mismatch: %+v", orders)
	}
}

func TestHyperliquidClient_Fills_SortedDescAndTruncated(t *testing.T) {
	_, cfg := newInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeInfoBody(t, r)
		if body["type"] != "userFills" {
			t.Fatalf("unexpected request type %v", body["type"])
		}
		if body["aggregateByTime"] != true {
			t.Fatalf("expected aggregateByTime=true, got %v", body["aggregateByTime"])
		}
		// 12 fills in scrambled order with distinct timestamps.
		fills := make([]map[string]interface{}, 0, 12)
		for _, ms := range []int64{3, 9, 1, 12, 7, 5, 11, 2, 8, 4, 10, 6} {
			fills = append(fills, map[string]interface{}{
				"coin": "ETH", "px": "3000", "sz": "1", "dir": "Open Long",
				"time": ms * 1000,
			})
		}
		_ = json.NewEncoder(w).Encode(fills)
	})

	c := connectors.NewHyperliquidClient(cfg)
	fills, err := c.Fills(context.Background(), testAddr, 5)
	if err != nil {
		t.Fatalf("Fills failed: %v", err)
	}
	if len(fills) != 5 {
		t.Fatalf("expected 5 fills after truncation, got %d", len(fills))
	}
	if fills[0].Time != 12000 {
		t.Fatalf("expected most recent fill first, got time=%d", fills[0].Time)
	}
	for i := 1; i < len(fills); i++ {
		if fills[i].Time > fills[i-1].Time {
			t.Fatalf("fills not sorted descending at index %d: %d > %d", i, fills[i].Time, fills[i-1].Time)
		}
	}
}

func TestHyperliquidClient_Non200BecomesUpstreamError(t *testing.T) {
	_, cfg := newInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	c := connectors.NewHyperliquidClient(cfg)
	_, err := c.Positions(context.Background(), testAddr)

	var upErr *connectors.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T %v", err, err)
	}
	if upErr.Op != "positions" {
		t.Fatalf("unexpected op: %s", upErr.Op)
	}
}

func TestHyperliquidClient_BadShapeBecomesUpstreamError(t *testing.T) {
	_, cfg := newInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"not an orders array"`))
	})

	c := connectors.NewHyperliquidClient(cfg)
	_, err := c.OpenOrders(context.Background(), testAddr)

	var upErr *connectors.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T %v", err, err)
	}
}

func TestHyperliquidClient_TimeoutBecomesUpstreamError(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	_, cfg := newInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	})
	cfg.HTTPTimeout = 100 * time.Millisecond

	c := connectors.NewHyperliquidClient(cfg)
	start := time.Now()
	_, err := c.Fills(context.Background(), testAddr, 5)

	var upErr *connectors.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T %v", err, err)
	}
	// The cause is what the user sees; it must name the timeout, not a
	// generic failure.
	if !strings.Contains(upErr.Cause, "timed out") {
		t.Fatalf("expected timeout cause, got %q", upErr.Cause)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("timeout did not bound the wait, took %s", elapsed)
	}
}
