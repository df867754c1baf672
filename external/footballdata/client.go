package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/platform/logging"
	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
	"github.com/riskibarqy/fixture-sync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL   = "https://api.football-data.org/v4"
	defaultTimeout   = 30 * time.Second
	maxResponseSize  = 16 << 20
	maxRateLimitWait = time.Minute
)

var errTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// Client fetches matches from the football-data.org v4 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	backoff    time.Duration
	logger     *logging.Logger
	breaker    *resilience.Breaker
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    backoff,
		logger:     logger,
		breaker:    resilience.NewBreaker(cfg.CircuitBreaker),
	}
}

// FetchMatches returns every match in window as a raw record. It returns
// usecase.ErrNoData when the response carries no matches collection.
func (c *Client) FetchMatches(ctx context.Context, window usecase.FetchWindow) ([]usecase.RawRecord, error) {
	if c.token == "" {
		return nil, fmt.Errorf("%w: football-data token is not configured", usecase.ErrDependencyUnavailable)
	}

	query := url.Values{}
	query.Set("dateFrom", window.From.Format(time.DateOnly))
	query.Set("dateTo", window.To.Format(time.DateOnly))
	fullURL := c.baseURL + "/matches?" + query.Encode()

	raw, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	var envelope matchesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode matches payload: %w", err)
	}
	if envelope.Matches == nil {
		return nil, fmt.Errorf("%w: response has no matches for %s", usecase.ErrNoData, window)
	}

	out := make([]usecase.RawRecord, 0, len(*envelope.Matches))
	for _, item := range *envelope.Matches {
		// Undecodable ids stay in the batch with id 0 so the run records the skip.
		var head matchID
		if err := sonic.Unmarshal(item, &head); err != nil {
			c.logger.WarnContext(ctx, "match id not decodable", "error", err)
		}
		out = append(out, usecase.RawRecord{ExternalID: head.ID, Payload: []byte(item)})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		var raw []byte
		err := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isTransient)
		return raw, err
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: football-data is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		if isTransient(err) {
			return nil, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("X-Auth-Token", c.token)
		req.Header.Set("Accept", "application/json")

		wait := time.Duration(attempt+1) * c.backoff
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = crerr.Mark(crerr.Wrap(err, "send request"), errTransient)
		} else {
			raw, readErr := readBody(resp)
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(crerr.Wrap(readErr, "read response body"), errTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(crerr.Newf("provider status=%d body=%s", resp.StatusCode, describeBody(raw)), errTransient)
				if reset := rateLimitReset(resp); reset > wait {
					wait = reset
				}
			default:
				return nil, crerr.Newf("provider status=%d body=%s", resp.StatusCode, describeBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		c.logger.WarnContext(ctx, "football-data request failed, retrying", "attempt", attempt+1, "wait", wait, "error", lastErr)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Mark(crerr.New("provider request failed"), errTransient)
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseSize)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func isTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// rateLimitReset reads the seconds-until-reset header sent with 429 responses.
func rateLimitReset(resp *http.Response) time.Duration {
	if resp.StatusCode != http.StatusTooManyRequests {
		return 0
	}
	for _, header := range []string{"X-RequestCounter-Reset", "Retry-After"} {
		seconds, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get(header)))
		if err == nil && seconds > 0 {
			return min(time.Duration(seconds)*time.Second, maxRateLimitWait)
		}
	}
	return 0
}

func describeBody(raw []byte) string {
	var body errorBody
	if err := sonic.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 300 {
		return text[:300] + "..."
	}
	return text
}
