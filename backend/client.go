// Package backend reads trades from the managed backend's REST table
// endpoint, the hosted store the journal web app writes to.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Dreamvillians/tradeville-journal/journal"
)

const (
	DefaultTable    = "trades"
	DefaultPageSize = 500

	// selectTrades embeds the strategy and image relations in each row.
	selectTrades = "*,strategies(id,name),trade_images(*)"
	maxErrorBody = 64 * 1024
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend http %d: %s", e.StatusCode, e.Body)
}

type Options struct {
	BaseURL  string
	APIKey   string
	Table    string
	PageSize int
	Timeout  time.Duration
	// RequestsPerSecond paces page requests; <= 0 disables pacing.
	RequestsPerSecond float64
	Logger            *zap.Logger
	HTTP              *http.Client
}

type Client struct {
	baseURL  string
	apiKey   string
	table    string
	pageSize int

	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend: missing base url")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("backend: base url: %w", err)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("backend: missing api key")
	}

	c := &Client{
		baseURL:    base,
		apiKey:     opts.APIKey,
		table:      opts.Table,
		pageSize:   opts.PageSize,
		httpClient: opts.HTTP,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		log:        opts.Logger,
	}
	if c.table == "" {
		c.table = DefaultTable
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c, nil
}

// ListTrades fetches every row of the trades table ordered by open time and id,
// one page at a time until a short page comes back. Fields that cannot be
// decoded are logged and left missing on the returned trade.
func (c *Client) ListTrades(ctx context.Context) ([]journal.TradeRecord, error) {
	var all []journal.TradeRecord
	for offset := 0; ; offset += c.pageSize {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < c.pageSize {
			break
		}
	}
	c.log.Debug("fetched trades", zap.Int("count", len(all)), zap.String("table", c.table))
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, offset int) ([]journal.TradeRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("backend: wait: %w", err)
	}

	params := url.Values{}
	params.Set("select", selectTrades)
	params.Set("order", "opened_at.asc,id.asc")
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("offset", strconv.Itoa(offset))
	apiURL := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, url.PathEscape(c.table), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	trades, issues, err := journal.DecodeRows(body)
	if err != nil {
		return nil, err
	}
	for _, is := range issues {
		c.log.Warn("trade field not decoded",
			zap.String("trade_id", is.TradeID),
			zap.String("field", is.Field),
			zap.String("value", is.Value),
			zap.Error(is.Err),
		)
	}
	return trades, nil
}
