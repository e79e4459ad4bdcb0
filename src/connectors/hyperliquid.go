// REST client for the Hyperliquid public info endpoint.
package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"hyperwatch/src/externalmodel"
	"hyperwatch/src/model"
)

const (
	// Default retry configuration
	defaultRetryAttempts   = 3
	defaultRetryBaseDelay  = 300 * time.Millisecond
	defaultRetryMaxBackoff = 2 * time.Second
)

// infoRequest is the single request shape of the info endpoint; the Type
// field discriminates which dataset is returned.
type infoRequest struct {
	Type            string `json:"type"`
	User            string `json:"user"`
	AggregateByTime *bool  `json:"aggregateByTime,omitempty"`
}

type HyperliquidClient struct {
	infoURL string
	http    *resty.Client
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}

	code := r.StatusCode()

	if code >= 500 && code <= 599 {
		return true
	}
	if code == 429 {
		return true
	}
	if code == 408 {
		return true
	}
	return false
}

func NewHyperliquidClient(cfg Config) *HyperliquidClient {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff).
		AddRetryCondition(isRetryableResp)

	return &HyperliquidClient{
		infoURL: cfg.InfoURL,
		http:    httpClient,
	}
}

func (c *HyperliquidClient) post(ctx context.Context, op string, body infoRequest, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.infoURL)
	if err != nil {
		return upstreamErr(op, requestCause(err), err)
	}

	raw := resp.Body()

	if resp.StatusCode() != 200 {
		logger.WithFields(map[string]interface{}{
			"op":     op,
			"status": resp.StatusCode(),
		}).Warn("info endpoint returned non-200")
		return upstreamErr(op, fmt.Sprintf("HTTP %d", resp.StatusCode()), nil)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return upstreamErr(op, "unexpected response shape", err)
	}
	return nil
}

// Positions fetches the clearinghouse state: open positions + margin summary.
func (c *HyperliquidClient) Positions(ctx context.Context, addr model.WalletAddress) (*externalmodel.ClearinghouseState, error) {
	var state externalmodel.ClearinghouseState
	req := infoRequest{Type: "clearinghouseState", User: addr.String()}
	if err := c.post(ctx, "positions", req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// OpenOrders fetches resting orders with frontend trigger metadata.
func (c *HyperliquidClient) OpenOrders(ctx context.Context, addr model.WalletAddress) ([]externalmodel.OpenOrder, error) {
	var orders []externalmodel.OpenOrder
	req := infoRequest{Type: "frontendOpenOrders", User: addr.String()}
	if err := c.post(ctx, "orders", req, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Fills fetches the fill history. The endpoint returns up to 2000 records in
// venue order; we sort by time descending and truncate client-side.
func (c *HyperliquidClient) Fills(ctx context.Context, addr model.WalletAddress, limit int) ([]externalmodel.Fill, error) {
	aggregate := true
	var fills []externalmodel.Fill
	req := infoRequest{Type: "userFills", User: addr.String(), AggregateByTime: &aggregate}
	if err := c.post(ctx, "fills", req, &fills); err != nil {
		return nil, err
	}

	sort.SliceStable(fills, func(i, j int) bool {
		return fills[i].Time > fills[j].Time
	})
	if limit > 0 && len(fills) > limit {
		fills = fills[:limit]
	}
	return fills, nil
}
