package nbastats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://stats.nba.com/stats/"
	DefaultTimeout = 5 * time.Second
)

// stats.nba.com drops requests that do not look like they come from the
// nba.com web app.
var defaultHeaders = map[string]string{
	"Origin":          "https://www.nba.com",
	"Referer":         "https://www.nba.com/",
	"Accept-Language": "en-US,en;q=0.9,zh-CN;q=0.8,zh;q=0.7",
	"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 12_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148",
}

const defaultHost = "stats.nba.com"

// Outcome is the result of one send. OK is false for transport errors,
// timeouts and any status other than 200; Err says why.
type Outcome struct {
	OK     bool
	Status int
	Body   []byte
	Err    error
}

func (o Outcome) String() string {
	if o.OK {
		return "ok"
	}
	return "failed"
}

// Sender performs one GET against the stats API.
type Sender interface {
	Send(ctx context.Context, req Request) Outcome
}

type Client struct {
	BaseURL string
	Host    string
	HTTP    *http.Client
	Logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL: baseURL,
		Host:    defaultHost,
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

func (c *Client) url(req Request) string {
	base := c.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + req.resource.Endpoint + "?" + req.query.Encode()
}

// Send issues a single attempt; failures are reported in the Outcome, never
// retried.
func (c *Client) Send(ctx context.Context, req Request) Outcome {
	u := c.url(req)
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Outcome{Err: fmt.Errorf("build request: %w", err)}
	}
	for k, v := range defaultHeaders {
		hreq.Header.Set(k, v)
	}
	if c.Host != "" {
		hreq.Host = c.Host
	}

	start := time.Now()
	resp, err := c.HTTP.Do(hreq)
	if err != nil {
		c.Logger.Warn("stats request failed", "url", u, "err", err)
		return Outcome{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Logger.Warn("stats response read failed", "url", u, "status", resp.StatusCode, "err", err)
		return Outcome{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		c.Logger.Warn("stats request not ok", "url", u, "status", resp.StatusCode)
		return Outcome{Status: resp.StatusCode, Body: body, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	c.Logger.Debug("stats request ok", "url", u, "bytes", len(body), "elapsed", time.Since(start))
	return Outcome{OK: true, Status: resp.StatusCode, Body: body}
}
