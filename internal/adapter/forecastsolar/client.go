package forecastsolar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/berfenger/solaredge2eink/internal/config"
	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/berfenger/solaredge2eink/internal/logging"

	"github.com/carlmjohnson/versioninfo"
	"go.uber.org/zap"
)

const (
	REQUEST_TIMEOUT = 10 * time.Second
	DATE_LAYOUT     = "2006-01-02"
)

var (
	ErrRateLimited = errors.New("forecast rate limited")
	ErrMalformed   = errors.New("malformed forecast response")
)

type estimateResponse struct {
	Result  map[string]float64 `json:"result"`
	Message struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

// Client reads daily production estimates from forecast.solar.
type Client struct {
	baseURL   string
	plane     config.ForecastConfig
	loc       *time.Location
	http      *http.Client
	logger    *zap.Logger
	userAgent string
	now       func() time.Time
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		baseURL:   cfg.ForecastURL,
		plane:     *cfg.Forecast,
		loc:       loc,
		http:      &http.Client{Timeout: REQUEST_TIMEOUT},
		logger:    logging.Component(logger, "forecast"),
		userAgent: "solaredge2eink/" + versioninfo.Short(),
		now:       time.Now,
	}
}

func (c *Client) estimatePath() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf("/estimate/watthours/day/%s/%s/%d/%d/%s",
		f(c.plane.Lat), f(c.plane.Lon), c.plane.Tilt, c.plane.Azimuth, f(c.plane.KWp))
}

// Forecast returns the estimated production of today and tomorrow in kWh.
func (c *Client) Forecast(ctx context.Context) (*domain.ForecastSnapshot, error) {
	path := c.estimatePath()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("forecast: unexpected status %d", resp.StatusCode)
	}

	var body estimateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if body.Result == nil {
		return nil, fmt.Errorf("%w: missing result", ErrMalformed)
	}

	now := c.now().In(c.loc)
	today := now.Format(DATE_LAYOUT)
	tomorrow := now.AddDate(0, 0, 1).Format(DATE_LAYOUT)
	todayWh, ok := body.Result[today]
	if !ok {
		return nil, fmt.Errorf("%w: no estimate for %s", ErrMalformed, today)
	}

	snap := &domain.ForecastSnapshot{
		TodayKWh: todayWh / 1000,
		// a missing tomorrow is shown as no data
		TomorrowKWh: body.Result[tomorrow] / 1000,
		FetchedAt:   c.now(),
	}
	c.logger.Debug("forecast fetched",
		zap.Float64("today_kwh", snap.TodayKWh),
		zap.Float64("tomorrow_kwh", snap.TomorrowKWh))
	return snap, nil
}
