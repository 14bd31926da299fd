package controller

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/berfenger/solaredge2eink/internal/core/service"

	"go.uber.org/zap"
)

var errUnavailable = errors.New("unavailable")

type fakeClock struct {
	now     time.Time
	onSleep func(now time.Time)
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	if c.onSleep != nil {
		c.onSleep(c.now)
	}
}

type fakeTelemetry struct {
	clock *fakeClock
	// energyFails reports whether the n-th energy call (starting at 1) fails.
	energyFails func(n int) bool
	onEnergy    func()
	pfErr       error
	pfPanics    bool
	batteryErr  error
	historyErr  error
	hasStorage  bool

	energyCalls []time.Time
}

func (f *fakeTelemetry) EnergyTotals(_ context.Context) (*domain.EnergyTotals, error) {
	f.energyCalls = append(f.energyCalls, f.clock.Now())
	if f.onEnergy != nil {
		f.onEnergy()
	}
	if f.energyFails != nil && f.energyFails(len(f.energyCalls)) {
		return nil, errUnavailable
	}
	return &domain.EnergyTotals{ProductionKWh: 12, ConsumptionKWh: 8, FetchedAt: f.clock.Now()}, nil
}

func (f *fakeTelemetry) PowerFlow(_ context.Context) (*domain.PowerFlowSnapshot, error) {
	if f.pfPanics {
		panic("power flow exploded")
	}
	if f.pfErr != nil {
		return nil, f.pfErr
	}
	return &domain.PowerFlowSnapshot{PVKW: 2, HasStorage: f.hasStorage, FetchedAt: f.clock.Now()}, nil
}

func (f *fakeTelemetry) Battery(_ context.Context) (*domain.BatterySnapshot, error) {
	if f.batteryErr != nil {
		return nil, f.batteryErr
	}
	return &domain.BatterySnapshot{StateOfCharge: 50, FetchedAt: f.clock.Now()}, nil
}

func (f *fakeTelemetry) History(_ context.Context) (*domain.EnergyHistory, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return &domain.EnergyHistory{FetchedAt: f.clock.Now()}, nil
}

type fakeForecast struct {
	err   error
	calls int
}

func (f *fakeForecast) Forecast(_ context.Context) (*domain.ForecastSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ForecastSnapshot{TodayKWh: 20, TomorrowKWh: 18}, nil
}

type fakeDisplay struct {
	ops []string
}

func (d *fakeDisplay) Show(_ image.Image, name string) error {
	d.ops = append(d.ops, "show:"+name)
	return nil
}

func (d *fakeDisplay) Clear() error {
	d.ops = append(d.ops, "clear")
	return nil
}

func (d *fakeDisplay) Sleep() error {
	d.ops = append(d.ops, "sleep")
	return nil
}

func (d *fakeDisplay) Close() error { return nil }

func (d *fakeDisplay) Backend() string { return "fake" }

func (d *fakeDisplay) shows() []string {
	var out []string
	for _, op := range d.ops {
		if len(op) > 5 && op[:5] == "show:" {
			out = append(out, op[5:])
		}
	}
	return out
}

type fakeRenderer struct {
	panics int
}

func (r *fakeRenderer) Render(_ domain.BoundScreen, _ time.Time) (*image.Gray, error) {
	if r.panics > 0 {
		r.panics--
		panic("render exploded")
	}
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func (r *fakeRenderer) RenderError(_ string, _ time.Time) *image.Gray {
	return image.NewGray(image.Rect(0, 0, 1, 1))
}

type harness struct {
	clock     *fakeClock
	telemetry *fakeTelemetry
	display   *fakeDisplay
	renderer  *fakeRenderer
	opts      Options
}

func newHarness(start time.Time) *harness {
	clock := &fakeClock{now: start}
	h := &harness{
		clock:     clock,
		telemetry: &fakeTelemetry{clock: clock},
		display:   &fakeDisplay{},
		renderer:  &fakeRenderer{},
	}
	h.opts = Options{
		Telemetry:    h.telemetry,
		Display:      h.display,
		Renderer:     h.renderer,
		Clock:        clock,
		Location:     time.UTC,
		PollInterval: 5 * time.Minute,
		Capabilities: service.Capabilities{Battery: true},
		Logger:       zap.NewNop(),
	}
	return h
}

// run starts a controller and cancels it once stop returns true after a
// wait slice.
func (h *harness) run(stop func(now time.Time) bool) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.clock.onSleep = func(now time.Time) {
		if stop(now) {
			cancel()
		}
	}
	c := New(h.opts)
	c.Run(ctx)
	return c
}
