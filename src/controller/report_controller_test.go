package controller

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hyperwatch/src/connectors"
	"hyperwatch/src/externalmodel"
	"hyperwatch/src/model"
)

const testAddr = model.WalletAddress("0xc2a30212a8ddac9e123944d6e29faddce994e5f2")

// fakeVenue lets each fetch succeed, fail, or hang until the context dies.
type fakeVenue struct {
	state     *externalmodel.ClearinghouseState
	orders    []externalmodel.OpenOrder
	fills     []externalmodel.Fill
	posErr    error
	ordersErr error
	fillsErr  error
	posHang   bool
}

func (f *fakeVenue) Positions(ctx context.Context, addr model.WalletAddress) (*externalmodel.ClearinghouseState, error) {
	if f.posHang {
		<-ctx.Done()
		return nil, &connectors.UpstreamError{Op: "positions", Cause: "timeout", Err: ctx.Err()}
	}
	if f.posErr != nil {
		return nil, f.posErr
	}
	return f.state, nil
}

func (f *fakeVenue) OpenOrders(ctx context.Context, addr model.WalletAddress) ([]externalmodel.OpenOrder, error) {
	return f.orders, f.ordersErr
}

func (f *fakeVenue) Fills(ctx context.Context, addr model.WalletAddress, limit int) ([]externalmodel.Fill, error) {
	return f.fills, f.fillsErr
}

func testConfig() Config {
	return Config{DisplayTimezone: "UTC", OrderLimit: 8, FillLimit: 5}
}

func TestWalletReport_HappyPath(t *testing.T) {
	venue := &fakeVenue{
		state: &externalmodel.ClearinghouseState{
			AssetPositions: []externalmodel.AssetPosition{{
				Position: externalmodel.RawPosition{
					Coin: "ETH", Szi: "1.5", EntryPx: "3000",
					LiquidationPx: "2500", UnrealizedPnl: "150", PositionValue: "4500",
					Leverage: externalmodel.Leverage{Type: "cross", Value: 10},
				},
			}},
		},
		orders: []externalmodel.OpenOrder{},
		fills:  []externalmodel.Fill{{Coin: "ETH", Dir: "Open Long", Sz: "1.5", Px: "3000", Time: 1727785800000}},
	}

	p := NewPipeline(venue, testConfig(), 10)
	body, err := p.WalletReport(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("WalletReport failed: %v", err)
	}

	for _, want := range []string{"ETH", "*Long*", "1.50", "3,000.00", "+150.00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("report missing %q:\n%s", want, body)
		}
	}
}

func TestWalletReport_OneFetchFailureAbortsWholeReport(t *testing.T) {
	venue := &fakeVenue{
		orders: []externalmodel.OpenOrder{{Coin: "BTC", Side: "B", Sz: "1", LimitPx: "60000"}},
		fills:  []externalmodel.Fill{},
		posErr: &connectors.UpstreamError{Op: "positions", Cause: "timeout", Err: context.DeadlineExceeded},
	}

	p := NewPipeline(venue, testConfig(), 10)
	body, err := p.WalletReport(context.Background(), testAddr)

	if body != "" {
		t.Fatalf("expected no partial report, got:\n%s", body)
	}
	var upErr *connectors.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %T %v", err, err)
	}
	if !strings.Contains(upErr.Error(), "timeout") {
		t.Fatalf("cause must mention the timeout: %v", upErr)
	}
}

func TestWalletReport_HangingFetchIsBoundedByContext(t *testing.T) {
	venue := &fakeVenue{
		posHang: true,
		orders:  []externalmodel.OpenOrder{},
		fills:   []externalmodel.Fill{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	p := NewPipeline(venue, testConfig(), 10)
	start := time.Now()
	_, err := p.WalletReport(ctx, testAddr)
	if err == nil {
		t.Fatal("expected error from hung fetch")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("context did not bound the wait: %s", time.Since(start))
	}
}

func TestWalletReport_EmptyVenueYieldsFallbackBody(t *testing.T) {
	venue := &fakeVenue{
		state:  &externalmodel.ClearinghouseState{AssetPositions: []externalmodel.AssetPosition{}},
		orders: []externalmodel.OpenOrder{},
		fills:  []externalmodel.Fill{},
	}

	p := NewPipeline(venue, testConfig(), 10)
	body, err := p.WalletReport(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("WalletReport failed: %v", err)
	}
	if !strings.Contains(body, "No data found for") {
		t.Fatalf("expected fallback body, got:\n%s", body)
	}
}
