// Package metrics exposes poll results and display activity as Prometheus
// metrics. Values are fed from the controller event stream.
package metrics

import (
	"github.com/berfenger/solaredge2eink/internal/core/domain"

	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const NAMESPACE = "solaredge2eink"

type Metrics struct {
	registry *prometheus.Registry

	polls       *prometheus.CounterVec
	failures    prometheus.Gauge
	health      prometheus.Gauge
	lastSuccess prometheus.Gauge
	energy      *prometheus.GaugeVec
	power       *prometheus.GaugeVec
	batterySoC  prometheus.Gauge
	forecast    *prometheus.GaugeVec
	screens     *prometheus.CounterVec
	sleeping    prometheus.Gauge

	es  *eventstream.EventStream
	sub *eventstream.Subscription
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "polls_total",
			Help:      "Polls of the monitoring API by result",
		}, []string{"result"}),
		failures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "consecutive_failures",
			Help:      "Consecutive polls without energy data",
		}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "health_state",
			Help:      "Monitor health: 0 ok, 1 degraded, 2 failed",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last poll that returned energy data",
		}),
		energy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "energy_today_kwh",
			Help:      "Energy meters of the current day in kWh",
		}, []string{"meter"}),
		power: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "power_kw",
			Help:      "Current power flow in kW",
		}, []string{"flow"}),
		batterySoC: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "battery_charge_level_percent",
			Help:      "Battery state of charge in percent",
		}),
		forecast: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "forecast_kwh",
			Help:      "Forecast production in kWh",
		}, []string{"day"}),
		screens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "screens_shown_total",
			Help:      "Frames sent to the display",
		}, []string{"screen", "backend"}),
		sleeping: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "sleeping",
			Help:      "1 while the sleep window is active",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.polls, m.failures, m.health, m.lastSuccess, m.energy,
		m.power, m.batterySoC, m.forecast, m.screens, m.sleeping,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Subscribe(es *eventstream.EventStream) {
	m.es = es
	m.sub = es.Subscribe(m.Observe)
}

func (m *Metrics) Unsubscribe() {
	if m.sub != nil {
		m.es.Unsubscribe(m.sub)
		m.sub = nil
	}
}

// Observe updates the metrics from a single controller event.
func (m *Metrics) Observe(evt any) {
	switch e := evt.(type) {
	case domain.PollCompleted:
		m.observePoll(e)
	case domain.ScreenShown:
		m.screens.WithLabelValues(e.Name, e.Backend).Inc()
	case domain.SleepStateChanged:
		if e.Sleeping {
			m.sleeping.Set(1)
		} else {
			m.sleeping.Set(0)
		}
	}
}

func (m *Metrics) observePoll(pc domain.PollCompleted) {
	m.failures.Set(float64(pc.Failures))
	m.health.Set(float64(pc.State))

	f := pc.Fresh
	if f.Energy == nil {
		m.polls.WithLabelValues("failure").Inc()
	} else {
		m.polls.WithLabelValues("success").Inc()
		m.lastSuccess.Set(float64(pc.At.Unix()))
		m.energy.WithLabelValues("production").Set(f.Energy.ProductionKWh)
		m.energy.WithLabelValues("consumption").Set(f.Energy.ConsumptionKWh)
		m.energy.WithLabelValues("self_consumption").Set(f.Energy.SelfConsumptionKWh)
		m.energy.WithLabelValues("feed_in").Set(f.Energy.FeedInKWh)
		m.energy.WithLabelValues("purchased").Set(f.Energy.PurchasedKWh)
	}
	if pf := f.PowerFlow; pf != nil {
		m.power.WithLabelValues("pv").Set(pf.PVKW)
		m.power.WithLabelValues("grid").Set(pf.GridKW)
		m.power.WithLabelValues("load").Set(pf.LoadKW)
	}
	if b := f.Battery; b != nil {
		m.batterySoC.Set(float64(b.StateOfCharge))
		m.power.WithLabelValues("storage").Set(b.PowerKW)
	}
	if fc := f.Forecast; fc != nil {
		m.forecast.WithLabelValues("today").Set(fc.TodayKWh)
		m.forecast.WithLabelValues("tomorrow").Set(fc.TomorrowKWh)
	}
}
