package controller

import (
	"context"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"hyperwatch/src/connectors"
	"hyperwatch/src/externalmodel"
	"hyperwatch/src/mapper"
	"hyperwatch/src/model"
	"hyperwatch/src/report"
)

// Pipeline runs the one-shot wallet report: fetch the three raw datasets
// concurrently, normalize, assemble, render. One pipeline value is shared by
// the chat handlers and the tracking scheduler.
type Pipeline struct {
	venue      connectors.Venue
	limits     report.Limits
	loc        *time.Location
	fetchLimit int
}

func NewPipeline(venue connectors.Venue, cfg Config, fetchLimit int) *Pipeline {
	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		logger.WithError(err).WithField("tz", cfg.DisplayTimezone).Warn("unknown display timezone, falling back to UTC")
		loc = time.UTC
	}

	limits := report.DefaultLimits()
	if cfg.OrderLimit > 0 {
		limits.Orders = cfg.OrderLimit
	}
	if cfg.FillLimit > 0 {
		limits.Fills = cfg.FillLimit
	}
	if fetchLimit < limits.Fills {
		fetchLimit = limits.Fills
	}

	return &Pipeline{
		venue:      venue,
		limits:     limits,
		loc:        loc,
		fetchLimit: fetchLimit,
	}
}

// WalletReport produces the rendered report text for one wallet. The three
// venue fetches run concurrently and fail as a unit: any failure aborts the
// whole report (no partial output) and surfaces as an UpstreamError.
func (p *Pipeline) WalletReport(ctx context.Context, addr model.WalletAddress) (string, error) {
	runID := uuid.NewString()
	log := logger.WithFields(map[string]interface{}{
		"run":    runID,
		"wallet": addr.String(),
	})
	started := time.Now()

	var (
		state  *externalmodel.ClearinghouseState
		orders []externalmodel.OpenOrder
		fills  []externalmodel.Fill
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		state, err = p.venue.Positions(gctx, addr)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = p.venue.OpenOrders(gctx, addr)
		return err
	})
	g.Go(func() error {
		var err error
		fills, err = p.venue.Fills(gctx, addr, p.fetchLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("wallet fetch failed")
		return "", err
	}

	snap := model.Snapshot{
		Wallet:    addr,
		Positions: mapper.MapPositions(state),
		Orders:    mapper.MapOpenOrders(orders),
		Fills:     mapper.MapFills(fills),
		FetchedAt: time.Now().UTC(),
	}

	log.WithFields(map[string]interface{}{
		"positions": len(snap.Positions),
		"orders":    len(snap.Orders),
		"fills":     len(snap.Fills),
		"took":      time.Since(started).String(),
	}).Info("wallet snapshot assembled")

	return report.Render(snap, report.Assemble(snap, p.limits, p.loc)), nil
}
