package connectors

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
	logger "github.com/sirupsen/logrus"

	"hyperwatch/src/externalmodel"
	"hyperwatch/src/model"
)

const (
	primaryUserAgent   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"
	alternateUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"

	renderTimeout = 45 * time.Second
)

// HyperdashClient extracts wallet data from the rendered HyperDash trader
// page. Strictly inferior to the structured client: selectors track the
// site's markup and a headless render is needed when the tables are injected
// client-side. Only used when the info endpoint is unavailable.
type HyperdashClient struct {
	baseURL      string
	http         *resty.Client
	renderJS     bool
	chromeBinary string
}

func NewHyperdashClient(cfg Config) *HyperdashClient {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.DashBaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &HyperdashClient{
		baseURL:      cfg.DashBaseURL,
		http:         httpClient,
		renderJS:     cfg.UseChromedp,
		chromeBinary: cfg.ChromeBinary,
	}
}

// fetchDocument GETs the trader page and parses it. Anti-automation blocks
// (403/429/503) get one retry under an alternate user agent; if the static
// HTML is missing every data container and JS rendering is enabled, the page
// is rendered in a headless browser and re-parsed.
func (c *HyperdashClient) fetchDocument(ctx context.Context, op string, addr model.WalletAddress) (*goquery.Document, error) {
	path := "/trader/" + addr.String()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", primaryUserAgent).
		Get(path)
	if err != nil {
		return nil, upstreamErr(op, requestCause(err), err)
	}

	if blockedStatus(resp.StatusCode()) {
		logger.WithFields(map[string]interface{}{
			"op":     op,
			"status": resp.StatusCode(),
		}).Warn("trader page blocked, retrying with alternate client identity")
		resp, err = c.http.R().
			SetContext(ctx).
			SetHeader("User-Agent", alternateUserAgent).
			Get(path)
		if err != nil {
			return nil, upstreamErr(op, requestCause(err), err)
		}
	}

	if resp.StatusCode() != 200 {
		return nil, upstreamErr(op, fmt.Sprintf("HTTP %d", resp.StatusCode()), nil)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, upstreamErr(op, "unparseable page", err)
	}

	if !hasDataContainers(doc) && c.renderJS {
		html, err := c.renderPage(ctx, c.baseURL+path)
		if err != nil {
			return nil, upstreamErr(op, "headless render failed", err)
		}
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, upstreamErr(op, "unparseable rendered page", err)
		}
	}

	return doc, nil
}

func blockedStatus(code int) bool {
	return code == 403 || code == 429 || code == 503
}

func hasDataContainers(doc *goquery.Document) bool {
	return doc.Find("div.asset-positions, div.open-orders, div.recent-fills").Length() > 0
}

// renderPage loads the URL in a headless browser and returns the rendered
// markup. All browser contexts are cancelled on every exit path so no
// Chrome process outlives the call.
func (c *HyperdashClient) renderPage(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(primaryUserAgent),
		chromedp.NoSandbox,
	)
	if c.chromeBinary != "" {
		opts = append(opts, chromedp.ExecPath(c.chromeBinary))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, renderTimeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

func (c *HyperdashClient) Positions(ctx context.Context, addr model.WalletAddress) (*externalmodel.ClearinghouseState, error) {
	doc, err := c.fetchDocument(ctx, "positions", addr)
	if err != nil {
		return nil, err
	}
	return parsePositionsSection(doc), nil
}

func (c *HyperdashClient) OpenOrders(ctx context.Context, addr model.WalletAddress) ([]externalmodel.OpenOrder, error) {
	doc, err := c.fetchDocument(ctx, "orders", addr)
	if err != nil {
		return nil, err
	}
	return parseOrdersSection(doc), nil
}

func (c *HyperdashClient) Fills(ctx context.Context, addr model.WalletAddress, limit int) ([]externalmodel.Fill, error) {
	doc, err := c.fetchDocument(ctx, "fills", addr)
	if err != nil {
		return nil, err
	}
	fills := parseFillsSection(doc)
	// Page order is not guaranteed; newest-first before truncating, same
	// contract as the structured client.
	sort.SliceStable(fills, func(i, j int) bool {
		return fills[i].Time > fills[j].Time
	})
	if limit > 0 && len(fills) > limit {
		fills = fills[:limit]
	}
	return fills, nil
}

// parsePositionsSection reads the positions table. Missing container means
// the wallet page rendered without data: empty state, not an error.
// Expected columns: asset | side | size | entry | liq | uPnL | value | lev.
func parsePositionsSection(doc *goquery.Document) *externalmodel.ClearinghouseState {
	state := &externalmodel.ClearinghouseState{AssetPositions: []externalmodel.AssetPosition{}}

	doc.Find("div.asset-positions table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return cleanCell(td.Text())
		})
		if len(cols) < 8 {
			return
		}

		szi := cols[2]
		if strings.EqualFold(cols[1], "Short") && !strings.HasPrefix(szi, "-") {
			szi = "-" + szi
		}

		levValue, levKind := splitLeverageCell(cols[7])
		state.AssetPositions = append(state.AssetPositions, externalmodel.AssetPosition{
			Type: "oneWay",
			Position: externalmodel.RawPosition{
				Coin:          cols[0],
				Szi:           szi,
				EntryPx:       cols[3],
				LiquidationPx: cols[4],
				UnrealizedPnl: cols[5],
				PositionValue: cols[6],
				Leverage: externalmodel.Leverage{
					Type:  levKind,
					Value: levValue,
				},
			},
		})
	})

	return state
}

// Expected columns: asset | side | size | price | type | trigger.
func parseOrdersSection(doc *goquery.Document) []externalmodel.OpenOrder {
	orders := []externalmodel.OpenOrder{}

	doc.Find("div.open-orders table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return cleanCell(td.Text())
		})
		if len(cols) < 4 {
			return
		}

		order := externalmodel.OpenOrder{
			Coin:    cols[0],
			Side:    cols[1],
			Sz:      cols[2],
			LimitPx: cols[3],
		}
		if len(cols) > 4 {
			order.OrderType = cols[4]
		}
		if len(cols) > 5 {
			order.TriggerCondition = cols[5]
		}
		orders = append(orders, order)
	})

	return orders
}

func parseFillsSection(doc *goquery.Document) []externalmodel.Fill {
	fills := []externalmodel.Fill{}

	doc.Find("div.recent-fills .fill-item").Each(func(_ int, item *goquery.Selection) {
		fill := externalmodel.Fill{
			Coin: cleanCell(item.Find(".fill-coin").Text()),
			Dir:  cleanCell(item.Find(".fill-dir").Text()),
			Sz:   cleanCell(item.Find(".fill-size").Text()),
			Px:   cleanCell(item.Find(".fill-price").Text()),
		}
		if ms, ok := item.Attr("data-time"); ok {
			fill.Time = parseMillisAttr(ms)
		}
		fills = append(fills, fill)
	})

	return fills
}

// cleanCell strips the display chrome the page puts around numbers ($ signs,
// thousands separators) so the mapper sees plain decimal strings.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return s
}

// splitLeverageCell parses cells like "10x cross" or "5x isolated".
func splitLeverageCell(s string) (int, string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, ""
	}
	var value int
	_, _ = fmt.Sscanf(strings.TrimSuffix(fields[0], "x"), "%d", &value)
	kind := ""
	if len(fields) > 1 {
		kind = strings.ToLower(fields[1])
	}
	return value, kind
}

func parseMillisAttr(s string) int64 {
	var ms int64
	_, _ = fmt.Sscanf(strings.TrimSpace(s), "%d", &ms)
	return ms
}
