package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"tga-liquidity/internal/model"
)

const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches daily history from the Yahoo Finance chart endpoint.
type YahooClient struct {
	BaseURL string
	Client  *http.Client
	logger  *slog.Logger
}

// NewYahooClient creates a client. If baseURL is empty the public endpoint is used.
func NewYahooClient(baseURL string, logger *slog.Logger) *YahooClient {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &YahooClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With("component", "marketdata", "source", "yahoo"),
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// FetchDaily implements Source. Sessions without a price are skipped.
func (c *YahooClient) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	if err := validateRange(symbol, start, end); err != nil {
		return nil, err
	}
	start, end = model.Day(start), model.Day(end)

	u, err := url.Parse(c.BaseURL + "/v8/finance/chart/" + url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	// period2 is exclusive upstream; ask for the whole end day.
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "div,split")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tga-liquidity/1.0")

	log := c.logger.With("symbol", symbol,
		"start", start.Format(model.DateLayout),
		"end", end.Format(model.DateLayout))
	log.Debug("request", "path", u.Path)

	began := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(began)
	if err != nil {
		log.Warn("request failed", "error", err, "duration", duration)
		return nil, fmt.Errorf("%w: %w", model.ErrDataSourceUnavailable, err)
	}
	defer resp.Body.Close()

	log.Info("response", "status", resp.StatusCode, "duration", duration)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("rate limit exceeded, retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    fmt.Sprintf("price provider refused the request: %s", resp.Status),
		}
	case http.StatusNotFound:
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "UNKNOWN_SYMBOL",
			Message:    fmt.Sprintf("no chart data for symbol %q", symbol),
		}
	default:
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("price provider returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var body chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "BAD_RESPONSE",
			Message:    fmt.Sprintf("failed to decode chart response: %v", err),
		}
	}
	if body.Chart.Error != nil {
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("%s: %s", body.Chart.Error.Code, body.Chart.Error.Description),
		}
	}
	if len(body.Chart.Result) == 0 {
		return nil, &SourceError{
			StatusCode: resp.StatusCode,
			Code:       "BAD_RESPONSE",
			Message:    "chart response has no result",
		}
	}

	points, err := body.Chart.Result[0].points()
	if err != nil {
		return nil, err
	}
	points = within(points, start, end)
	log.Info("fetched daily prices", "rows", len(points))
	return points, nil
}

// points pairs timestamps with adjusted closes. Raw closes are not a substitute:
// a response without the adjclose block is unusable.
func (r chartResult) points() ([]model.PricePoint, error) {
	if len(r.Indicators.AdjClose) == 0 {
		return nil, &SourceError{
			Code:    "BAD_RESPONSE",
			Message: "chart response has no adjclose field",
		}
	}
	closes := r.Indicators.AdjClose[0].AdjClose
	if len(closes) != len(r.Timestamp) {
		return nil, &SourceError{
			Code:    "BAD_RESPONSE",
			Message: fmt.Sprintf("chart response has %d timestamps and %d closes", len(r.Timestamp), len(closes)),
		}
	}

	out := make([]model.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		v := closes[i]
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		// Session timestamps are exchange-local; shift before truncating to the day.
		day := model.Day(time.Unix(ts+r.Meta.GMTOffset, 0).UTC())
		out = append(out, model.PricePoint{Date: day, Price: *v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
