package walletreport

import (
	"context"
	"fmt"
	"time"

	"hyperwatch/src/connectors"
	"hyperwatch/src/controller"
	"hyperwatch/src/model"
)

type Report struct{}

// Run prints a one-shot report for the given wallet to stdout. Useful for
// checking venue connectivity without a bot token.
func (r *Report) Run(raw string) error {
	addr, err := model.ExtractWalletAddress(raw)
	if err != nil {
		return fmt.Errorf("wallet argument %q: %w", raw, err)
	}

	venueCfg := connectors.GetConfig()
	pipeline := controller.NewPipeline(connectors.NewVenue(venueCfg), controller.GetConfig(), venueCfg.FillLimit)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	text, err := pipeline.WalletReport(ctx, addr)
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}
