package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"Backcast/internal/domain/models"
	domsvc "Backcast/internal/domain/service"
	"Backcast/internal/service/ratelimit"
	xhttp "Backcast/pkg/http"
	"Backcast/pkg/util"
)

// Client fetches daily close/volume history from a market-chart style REST
// endpoint: GET {base}/coins/{symbol}/market_chart?vs_currency=usd&days=N
// returning parallel [timestamp_ms, value] arrays. Outbound calls go through
// a token bucket so a burst of backtests cannot trip the provider's limits.
type Client struct {
	name    string
	baseURL string
	apiKey  string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
	maxRPS  float64
}

func New(name, baseURL, apiKey string, timeout time.Duration, limiter *ratelimit.Limiter, maxRPS float64) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: limiter,
		maxRPS:  maxRPS,
	}
}

func (c *Client) Name() string { return c.name }

type marketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// DailyHistory returns the last `days` daily snapshots in ascending order.
// SentimentIndex is left neutral; the history usecase merges the real index.
func (c *Client) DailyHistory(ctx context.Context, symbol string, days int) ([]models.PriceSnapshot, error) {
	if c.limiter != nil && c.maxRPS > 0 && !c.limiter.Allow(c.name, c.maxRPS, c.maxRPS) {
		return nil, fmt.Errorf("marketdata %s: rate limited", c.name)
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["x-api-key"] = c.apiKey
	}

	var mc marketChartResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, symbol),
		QueryParams: map[string][]string{
			"vs_currency": {"usd"},
			"days":        {strconv.Itoa(days)},
			"interval":    {"daily"},
		},
		Headers: headers,
	}, &mc)
	if err != nil {
		return nil, fmt.Errorf("marketdata %s: fetch %s: %w", c.name, symbol, err)
	}
	if len(mc.Prices) == 0 {
		return nil, fmt.Errorf("marketdata %s: empty series for %s", c.name, symbol)
	}

	volumeAt := make(map[int64]float64, len(mc.TotalVolumes))
	for _, v := range mc.TotalVolumes {
		volumeAt[dayKey(int64(v[0]))] = v[1]
	}

	out := make([]models.PriceSnapshot, 0, len(mc.Prices))
	for _, p := range mc.Prices {
		ts := util.TruncateDay(time.UnixMilli(int64(p[0])))
		out = append(out, models.PriceSnapshot{
			Date:           util.DayString(ts),
			Timestamp:      ts,
			Price:          p[1],
			Volume:         volumeAt[dayKey(int64(p[0]))],
			SentimentIndex: models.NeutralSentiment,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	out = dedupeDays(out)
	if len(out) > days {
		out = out[len(out)-days:]
	}
	return out, nil
}

func dayKey(ms int64) int64 {
	return util.TruncateDay(time.UnixMilli(ms)).Unix()
}

// Providers occasionally emit two points for the current day; keep the later.
func dedupeDays(snaps []models.PriceSnapshot) []models.PriceSnapshot {
	out := snaps[:0]
	for _, s := range snaps {
		if len(out) > 0 && out[len(out)-1].Date == s.Date {
			out[len(out)-1] = s
			continue
		}
		out = append(out, s)
	}
	return out
}

var _ domsvc.HistoryProvider = (*Client)(nil)
