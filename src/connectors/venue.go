package connectors

import (
	"context"
	"errors"
	"fmt"
	"net"

	logger "github.com/sirupsen/logrus"

	"hyperwatch/src/externalmodel"
	"hyperwatch/src/model"
)

// Venue fetches the three raw datasets for one wallet. The three calls are
// independent and safe to issue concurrently; each one honors the context
// deadline so a stalled venue cannot hang a chat interaction.
type Venue interface {
	Positions(ctx context.Context, addr model.WalletAddress) (*externalmodel.ClearinghouseState, error)
	OpenOrders(ctx context.Context, addr model.WalletAddress) ([]externalmodel.OpenOrder, error)
	Fills(ctx context.Context, addr model.WalletAddress, limit int) ([]externalmodel.Fill, error)
}

// UpstreamError is the single failure outcome for the venue clients: network
// errors, non-success statuses and response-shape mismatches all collapse
// into it. Cause is short and human-readable; it ends up in the user-facing
// error summary.
type UpstreamError struct {
	Op    string // which fetch failed, e.g. "positions"
	Cause string
	Err   error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s unavailable: %s: %v", e.Op, e.Cause, e.Err)
	}
	return fmt.Sprintf("upstream %s unavailable: %s", e.Op, e.Cause)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstreamErr(op, cause string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Cause: cause, Err: err}
}

// requestCause classifies a transport error into the short cause a user
// sees. Client timeouts surface as a net.Error with Timeout() set, however
// deep the HTTP client wraps them.
func requestCause(err error) string {
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &nerr) && nerr.Timeout():
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	default:
		return "request failed"
	}
}

// NewVenue selects the acquisition strategy. The structured info endpoint is
// preferred; the HyperDash page scraper only exists for deployments where
// that endpoint cannot be reached.
func NewVenue(cfg Config) Venue {
	if cfg.DataSource == "scrape" {
		logger.WithField("base", cfg.DashBaseURL).Warn("using extraction data source; structured API preferred")
		return NewHyperdashClient(cfg)
	}
	return NewHyperliquidClient(cfg)
}
