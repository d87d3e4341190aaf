package sentiment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	domsvc "Backcast/internal/domain/service"
	xhttp "Backcast/pkg/http"
	"Backcast/pkg/util"
)

// Client fetches the daily 0-100 fear/greed index from a fng-style endpoint:
// GET {base}/fng/?limit=N&format=json. Days the feed does not cover simply
// stay absent from the returned map; callers fall back to neutral.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: baseURL, client: xhttp.NewClient(xhttp.WithTimeout(timeout))}
}

type fngResponse struct {
	Data []struct {
		Value     string `json:"value"`
		Timestamp string `json:"timestamp"` // unix seconds as string
	} `json:"data"`
}

// DailyIndex returns the index keyed by YYYY-MM-DD for the last `days` days.
func (c *Client) DailyIndex(ctx context.Context, days int) (map[string]float64, error) {
	var fr fngResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/fng/",
		QueryParams: map[string][]string{
			"limit":  {strconv.Itoa(days)},
			"format": {"json"},
		},
	}, &fr)
	if err != nil {
		return nil, fmt.Errorf("sentiment: fetch index: %w", err)
	}

	out := make(map[string]float64, len(fr.Data))
	for _, d := range fr.Data {
		ts, err := strconv.ParseInt(d.Timestamp, 10, 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(d.Value, 64)
		if err != nil || v < 0 || v > 100 {
			continue
		}
		out[util.DayString(time.Unix(ts, 0))] = v
	}
	return out, nil
}

var _ domsvc.SentimentProvider = (*Client)(nil)
