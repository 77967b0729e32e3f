package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"
	"github.com/maypok86/otter/v2"

	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
)

// DefaultBaseURL is the public Aladhan API.
const DefaultBaseURL = "https://api.aladhan.com"

const maxBodySize = 1 << 20

// Client fetches daily prayer schedules by city.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *otter.Cache[string, *Result]
	attempts   uint
	delay      time.Duration
	logger     common.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts == 0 {
			attempts = 1
		}
		c.attempts = attempts
		c.delay = delay
	}
}

// WithCacheTTL sets how long a fetched schedule is reused. Zero disables
// the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = newCache(ttl)
	}
}

// WithLogger sets the logger.
func WithLogger(l common.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func newCache(ttl time.Duration) *otter.Cache[string, *Result] {
	return otter.Must(&otter.Options[string, *Result]{
		MaximumSize:      256,
		ExpiryCalculator: otter.ExpiryWriting[string, *Result](ttl),
	})
}

// New creates a client with sensible defaults.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: common.FetchTimeout},
		cache:      newCache(common.ScheduleCacheTTL),
		attempts:   3,
		delay:      time.Second,
		logger:     common.Component("aladhan"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(loc common.Location, day time.Time) string {
	return fmt.Sprintf("%s|%s|%d|%s",
		strings.ToLower(strings.TrimSpace(loc.City)),
		strings.ToLower(strings.TrimSpace(loc.Country)),
		loc.Method,
		day.Format("2006-01-02"))
}

// Invalidate drops any cached schedule for loc on day.
func (c *Client) Invalidate(loc common.Location, day time.Time) {
	if c.cache != nil {
		c.cache.Invalidate(cacheKey(loc, day))
	}
}

// Fetch returns the schedule for loc on the calendar date of day.
//
// Errors wrap common.ErrCityNotFound when the API rejects the location,
// common.ErrMalformedResponse when the body cannot be used, and
// common.ErrFetchFailed (plus common.ErrTimeout on timeouts) when the
// server cannot be reached after retrying.
func (c *Client) Fetch(ctx context.Context, loc common.Location, day time.Time) (*Result, error) {
	key := cacheKey(loc, day)
	if c.cache != nil {
		if cached, ok := c.cache.GetIfPresent(key); ok {
			c.logger.Debug("cache hit for %s on %s", loc, day.Format("2006-01-02"))
			return cached.clone(), nil
		}
	}

	reqID := uuid.NewString()
	endpoint := c.endpoint(loc, day)
	start := time.Now()
	c.logger.Debug("request %s: GET %s", reqID, endpoint)

	var result *Result
	var lastErr error

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				lastErr = err
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/json")
			req.Header.Set("X-Request-ID", reqID)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				lastErr = err
				if ctx.Err() != nil {
					return retry.Unrecoverable(err)
				}
				c.logger.Warn("request %s failed: %v", reqID, err)
				return err
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode >= 500 {
				_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
				lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
				c.logger.Warn("request %s: %v", reqID, lastErr)
				return lastErr
			}

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			if err != nil {
				lastErr = err
				return err
			}

			result, err = decode(resp.StatusCode, body)
			if err != nil {
				lastErr = err
				return retry.Unrecoverable(err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("request %s: retrying (attempt %d): %v", reqID, n+1, err)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		mapped := classify(ctx, lastErr)
		c.logger.Error("request %s for %s failed after %s: %v", reqID, loc, time.Since(start).Round(time.Millisecond), mapped)
		return nil, mapped
	}

	result.Location = loc
	result.Date = day
	result.FetchedAt = time.Now()
	c.logger.Info("request %s: fetched schedule for %s (%s)", reqID, loc, result.Readable)

	if c.cache != nil {
		c.cache.Set(key, result.clone())
	}
	return result, nil
}

func (c *Client) endpoint(loc common.Location, day time.Time) string {
	q := url.Values{}
	q.Set("city", strings.TrimSpace(loc.City))
	q.Set("country", strings.TrimSpace(loc.Country))
	q.Set("method", strconv.Itoa(loc.Method))
	return c.baseURL + "/v1/timingsByCity/" + day.Format("02-01-2006") + "?" + q.Encode()
}

// decode validates an API body. status is the HTTP status code.
func decode(status int, body []byte) (*Result, error) {
	var env response
	if err := json.Unmarshal(body, &env); err != nil {
		if status == http.StatusBadRequest || status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: HTTP %d", common.ErrCityNotFound, status)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	if env.Code != http.StatusOK || status == http.StatusBadRequest || status == http.StatusNotFound {
		msg := env.Status
		var detail string
		if json.Unmarshal(env.Data, &detail) == nil && detail != "" {
			msg = detail
		}
		return nil, fmt.Errorf("%w: %s", common.ErrCityNotFound, msg)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", common.ErrMalformedResponse, status)
	}

	var data dayData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	schedule := prayer.FromTimings(data.Timings)
	if len(schedule) == 0 {
		return nil, fmt.Errorf("%w: no timings", common.ErrMalformedResponse)
	}

	return &Result{
		Schedule:   schedule,
		Readable:   data.Date.Readable,
		Hijri:      data.Date.Hijri.format(),
		Timezone:   data.Meta.Timezone,
		MethodName: data.Meta.Method.Name,
	}, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrCityNotFound), errors.Is(err, common.ErrMalformedResponse):
		return err
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%w: %w", common.ErrCancelled, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w: %v", common.ErrFetchFailed, common.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
}
