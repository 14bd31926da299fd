package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/berfenger/solaredge2eink/internal/core/domain"
	"github.com/berfenger/solaredge2eink/internal/util"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type fakeHealth struct {
	state    domain.HealthState
	sleeping bool
}

func (f fakeHealth) Health() domain.HealthState { return f.state }

func (f fakeHealth) Sleeping() bool { return f.sleeping }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthCheck(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	cases := []struct {
		health fakeHealth
		code   int
		body   string
	}{
		{fakeHealth{state: domain.HealthOK}, http.StatusOK, "health_check: ok"},
		{fakeHealth{state: domain.HealthDegraded}, http.StatusOK, "health_check: degraded"},
		{fakeHealth{state: domain.HealthOK, sleeping: true}, http.StatusOK, "health_check: ok (sleeping)"},
		{fakeHealth{state: domain.HealthFailed}, http.StatusServiceUnavailable, "health_check: failed"},
	}
	for _, c := range cases {
		srv := NewServer(cfg, c.health, nil)
		rec := get(t, srv.Handler, "/healthcheck")
		assert.Equal(c.code, rec.Code)
		assert.Equal(c.body, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {

	assert := assert.New(t)

	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Add(3)

	srv := NewServer(util.LoadTestConfig(), fakeHealth{}, reg)
	rec := get(t, srv.Handler, "/metrics")
	assert.Equal(http.StatusOK, rec.Code)
	assert.Contains(rec.Body.String(), "test_counter_total 3")

	srv = NewServer(util.LoadTestConfig(), fakeHealth{}, nil)
	assert.Equal(http.StatusNotFound, get(t, srv.Handler, "/metrics").Code)
}
