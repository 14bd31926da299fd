package solaredge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/berfenger/solaredge2eink/internal/cache"
	"github.com/berfenger/solaredge2eink/internal/config"
	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/berfenger/solaredge2eink/internal/logging"

	"github.com/carlmjohnson/versioninfo"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	REQUEST_TIMEOUT = 10 * time.Second
	MAX_RETRIES     = 3
	TIME_LAYOUT     = "2006-01-02 15:04:05"
	DATE_LAYOUT     = "2006-01-02"
	MAX_BODY_BYTES  = 4 << 20
	HISTORY_TTL     = time.Hour
)

var (
	ErrMalformed = errors.New("malformed response")
	ErrNoBattery = errors.New("no battery telemetry")
)

type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.StatusCode)
}

func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Client reads site telemetry from the SolarEdge monitoring API.
type Client struct {
	baseURL   string
	apiKey    string
	siteID    string
	loc       *time.Location
	http      *http.Client
	logger    *zap.Logger
	userAgent string
	now       func() time.Time
	backOff   func() backoff.BackOff
	history   *cache.TTL[*domain.EnergyHistory]
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	c := &Client{
		baseURL:   cfg.APIURL,
		apiKey:    cfg.APIKey,
		siteID:    cfg.SiteID,
		loc:       loc,
		http:      &http.Client{Timeout: REQUEST_TIMEOUT},
		logger:    logging.Component(logger, "solaredge"),
		userAgent: "solaredge2eink/" + versioninfo.Short(),
		now:       time.Now,
		backOff:   defaultBackOff,
	}
	c.history = cache.NewTTL(HISTORY_TTL, c.fetchHistory)
	return c
}

// 2s, 4s, 8s between the attempts
func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 30 * time.Second
	return backoff.WithMaxRetries(b, MAX_RETRIES)
}

func (c *Client) sitePath(endpoint string) string {
	return fmt.Sprintf("/site/%s/%s", url.PathEscape(c.siteID), endpoint)
}

// getJSON performs a GET with retries on transport errors, 429 and 5xx.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			// url.Error carries the api key in its message
			return fmt.Errorf("%s: request failed: %w", path, unwrapURLError(err))
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MAX_BODY_BYTES))
			serr := &StatusError{Path: path, StatusCode: resp.StatusCode}
			if serr.Retryable() {
				return serr
			}
			return backoff.Permanent(serr)
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, MAX_BODY_BYTES)).Decode(target); err != nil {
			return backoff.Permanent(fmt.Errorf("%s: %w: %v", path, ErrMalformed, err))
		}
		return nil
	}

	return backoff.RetryNotify(op, backoff.WithContext(c.backOff(), ctx), func(err error, wait time.Duration) {
		c.logger.Warn("request failed, retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
}

func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func (c *Client) today() time.Time {
	now := c.now().In(c.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

func dayRange(start, end time.Time) url.Values {
	q := url.Values{}
	q.Set("startTime", start.Format(DATE_LAYOUT)+" 00:00:00")
	q.Set("endTime", end.Format(DATE_LAYOUT)+" 23:59:59")
	return q
}

func malformed(path, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", path, ErrMalformed, fmt.Sprintf(format, args...))
}
