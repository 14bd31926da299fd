// Package controller runs the monitor loop: it polls the telemetry sources on
// a fixed cadence, tracks the health of the primary feed and cycles the
// screens on the display, pausing during the nightly sleep window.
package controller

import (
	"context"
	"image"
	"sync/atomic"
	"time"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/berfenger/solaredge2eink/internal/core/port"
	"github.com/berfenger/solaredge2eink/internal/core/service"
	"github.com/berfenger/solaredge2eink/internal/logging"

	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

const (
	DEFAULT_DWELL       = 60 * time.Second
	DEFAULT_SLEEP_CHECK = 60 * time.Second
	WAIT_SLICE          = time.Second

	ERROR_SCREEN_NAME = "error"
)

type Options struct {
	Telemetry port.TelemetrySource
	// Forecast is nil when no forecast is configured.
	Forecast     port.ForecastSource
	Display      port.Display
	Renderer     port.Renderer
	Clock        port.Clock
	Events       *eventstream.EventStream
	Window       service.SleepWindow
	Location     *time.Location
	PollInterval time.Duration
	Capabilities service.Capabilities

	Dwell            time.Duration
	SleepCheck       time.Duration
	FailureThreshold int

	Logger *zap.Logger
}

type Controller struct {
	telemetry port.TelemetrySource
	forecast  port.ForecastSource
	display   port.Display
	renderer  port.Renderer
	clock     port.Clock
	events    *eventstream.EventStream
	window    service.SleepWindow
	loc       *time.Location
	caps      service.Capabilities

	dwell      time.Duration
	sleepCheck time.Duration

	schedule *service.PollSchedule
	policy   *service.FailurePolicy
	plan     []domain.ScreenKind

	data       domain.Dataset
	screens    []domain.BoundScreen
	next       int
	asleep     bool
	errorShown bool

	health   atomic.Int32
	sleeping atomic.Bool

	logger *zap.Logger
}

func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Dwell <= 0 {
		opts.Dwell = DEFAULT_DWELL
	}
	if opts.SleepCheck <= 0 {
		opts.SleepCheck = DEFAULT_SLEEP_CHECK
	}
	if opts.Events == nil {
		opts.Events = &eventstream.EventStream{}
	}
	return &Controller{
		telemetry:  opts.Telemetry,
		forecast:   opts.Forecast,
		display:    opts.Display,
		renderer:   opts.Renderer,
		clock:      opts.Clock,
		events:     opts.Events,
		window:     opts.Window,
		loc:        opts.Location,
		caps:       opts.Capabilities,
		dwell:      opts.Dwell,
		sleepCheck: opts.SleepCheck,
		schedule:   service.NewPollSchedule(opts.PollInterval, opts.Clock.Now()),
		policy:     service.NewFailurePolicy(opts.FailureThreshold),
		plan:       service.BuildRotation(opts.Capabilities),
		logger:     logging.Component(opts.Logger, "controller"),
	}
}

// Health is safe to call from other goroutines.
func (c *Controller) Health() domain.HealthState {
	return domain.HealthState(c.health.Load())
}

func (c *Controller) Sleeping() bool {
	return c.sleeping.Load()
}

// Run loops until ctx is cancelled. The display is cleared and put to sleep
// on every way out.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("controller started",
		zap.Duration("poll_interval", c.schedule.Interval),
		zap.Strings("rotation", screenNames(c.plan)),
		zap.String("display", c.display.Backend()),
		zap.Bool("sleep_window", c.window.Enabled()))
	defer c.shutdown()

	for ctx.Err() == nil {
		c.step(ctx)
	}
	c.logger.Info("shutdown requested")
	return nil
}

func (c *Controller) step(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("controller step panicked", zap.Any("panic", r), zap.Stack("stack"))
			c.wait(ctx, WAIT_SLICE)
		}
	}()

	now := c.clock.Now()
	if c.window.Contains(now.In(c.loc).Hour()) {
		c.enterSleep(now)
		c.wait(ctx, c.sleepCheck)
		return
	}
	if c.asleep {
		c.wake(now)
	}

	if c.schedule.Due(now) {
		c.poll(ctx, now)
		if ctx.Err() != nil {
			return
		}
	}

	switch {
	case c.policy.State() == domain.HealthFailed:
		if !c.errorShown {
			c.push(c.renderer.RenderError("", c.clock.Now()), ERROR_SCREEN_NAME)
			c.errorShown = true
		}
		c.waitForPoll(ctx)
	case len(c.screens) == 0:
		c.waitForPoll(ctx)
	default:
		c.showNext()
		c.wait(ctx, c.dwell)
	}
}

func (c *Controller) poll(ctx context.Context, now time.Time) {
	// the cursor moves on however the poll ends
	defer func() {
		if c.schedule.Advance(c.clock.Now()) {
			c.logger.Warn("poll cycle exceeded the interval, schedule resynchronized",
				zap.Time("next_poll", c.schedule.Next()))
		}
	}()

	fresh := c.fetch(ctx)
	if ctx.Err() != nil {
		c.logger.Debug("poll aborted by shutdown")
		return
	}

	var state domain.HealthState
	if fresh.Energy != nil {
		state = c.policy.RecordSuccess()
		c.errorShown = false
	} else {
		state = c.policy.RecordFailure()
	}
	c.data = c.data.Merge(fresh)
	c.health.Store(int32(state))

	switch {
	case state == domain.HealthFailed:
		c.screens = nil
	case c.data.Energy == nil:
		// stale screens need a successful energy poll to fall back on
		c.screens = nil
	default:
		c.screens = service.BindRotation(c.plan, c.data, fresh)
	}

	fields := []zap.Field{
		zap.String("state", state.String()),
		zap.Int("failures", c.policy.Failures()),
		zap.Int("screens", len(c.screens)),
	}
	if state == domain.HealthOK {
		c.logger.Info("poll completed", fields...)
	} else {
		c.logger.Warn("poll without energy data", fields...)
	}

	c.events.Publish(domain.PollCompleted{
		At:       now,
		State:    state,
		Failures: c.policy.Failures(),
		Fresh:    fresh,
		Data:     c.data,
	})
}

// fetch asks every source once. Failed feeds stay absent in the result, and
// a source that panics ends the fetch with what was gathered so far.
func (c *Controller) fetch(ctx context.Context) (fresh domain.Dataset) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("telemetry source panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	if e, err := c.telemetry.EnergyTotals(ctx); err != nil {
		c.logger.Warn("energy totals unavailable", zap.Error(err))
	} else {
		fresh.Energy = e
	}
	if ctx.Err() != nil {
		return fresh
	}

	if pf, err := c.telemetry.PowerFlow(ctx); err != nil {
		c.logger.Info("power flow unavailable", zap.Error(err))
	} else {
		fresh.PowerFlow = pf
	}
	if c.caps.Battery && ctx.Err() == nil {
		if b, err := c.telemetry.Battery(ctx); err != nil {
			c.logger.Info("battery data unavailable", zap.Error(err))
		} else {
			fresh.Battery = b
		}
	}
	if ctx.Err() == nil {
		if h, err := c.telemetry.History(ctx); err != nil {
			c.logger.Info("energy history unavailable", zap.Error(err))
		} else {
			fresh.History = h
		}
	}
	if c.forecast != nil && ctx.Err() == nil {
		if f, err := c.forecast.Forecast(ctx); err != nil {
			c.logger.Info("forecast unavailable", zap.Error(err))
		} else {
			fresh.Forecast = f
		}
	}
	return fresh
}

func (c *Controller) showNext() {
	if c.next >= len(c.screens) {
		c.next = 0
	}
	screen := c.screens[c.next]
	c.next++

	img, err := c.renderer.Render(screen, c.clock.Now())
	if err != nil {
		c.logger.Error("render failed", zap.String("screen", screen.Name()), zap.Error(err))
		return
	}
	c.push(img, screen.Name())
}

func (c *Controller) push(img image.Image, name string) {
	if err := c.display.Show(img, name); err != nil {
		c.logger.Error("display update failed", zap.String("screen", name), zap.Error(err))
		return
	}
	c.logger.Debug("screen shown", zap.String("screen", name))
	c.events.Publish(domain.ScreenShown{
		Name:    name,
		Backend: c.display.Backend(),
		At:      c.clock.Now(),
	})
}

func (c *Controller) enterSleep(now time.Time) {
	if c.asleep {
		return
	}
	c.asleep = true
	c.sleeping.Store(true)
	c.logger.Info("entering sleep window",
		zap.Int("start_hour", c.window.StartHour),
		zap.Int("end_hour", c.window.EndHour))
	c.blank()
	// the panel is blank now, so a pending error has to be shown again
	c.errorShown = false
	c.events.Publish(domain.SleepStateChanged{Sleeping: true, At: now})
}

func (c *Controller) wake(now time.Time) {
	c.asleep = false
	c.sleeping.Store(false)
	c.schedule.Reset(now)
	c.next = 0
	c.logger.Info("leaving sleep window")
	c.events.Publish(domain.SleepStateChanged{Sleeping: false, At: now})
}

func (c *Controller) blank() {
	if err := c.display.Clear(); err != nil {
		c.logger.Error("display clear failed", zap.Error(err))
	}
	if err := c.display.Sleep(); err != nil {
		c.logger.Error("display sleep failed", zap.Error(err))
	}
}

func (c *Controller) shutdown() {
	c.logger.Info("clearing display")
	c.blank()
}

// waitForPoll idles until the next poll, waking up for the sleep window check.
func (c *Controller) waitForPoll(ctx context.Context) {
	d := c.schedule.Until(c.clock.Now())
	c.wait(ctx, min(max(d, WAIT_SLICE), c.sleepCheck))
}

// wait sleeps for d in slices of at most WAIT_SLICE and returns early once
// ctx is cancelled.
func (c *Controller) wait(ctx context.Context, d time.Duration) bool {
	for d > 0 {
		if ctx.Err() != nil {
			return false
		}
		slice := min(d, WAIT_SLICE)
		c.clock.Sleep(slice)
		d -= slice
	}
	return ctx.Err() == nil
}

func screenNames(plan []domain.ScreenKind) []string {
	names := make([]string, len(plan))
	for i, k := range plan {
		names[i] = k.String()
	}
	return names
}
