package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaris-sizer/solaris/pkg/types"
)

func scrape(t *testing.T, m *Manager) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestObserveCalculation(t *testing.T) {
	m := NewManager()

	m.ObserveCalculation(
		types.AggregateLoad{DailyEnergyKWh: 3.6, Warnings: []string{"a", "b"}},
		types.SizingResult{RegionKnown: false, Solutions: make([]types.SolutionCandidate, 3)},
	)
	m.ObserveCalculation(
		types.AggregateLoad{DailyEnergyKWh: 1},
		types.SizingResult{RegionKnown: true},
	)
	m.ObserveRejected()

	body := scrape(t, m)
	assert.Contains(t, body, `solaris_sizer_calculations_total{result="ok"} 2`)
	assert.Contains(t, body, `solaris_sizer_calculations_total{result="invalid"} 1`)
	assert.Contains(t, body, "solaris_sizer_large_load_warnings_total 2")
	assert.Contains(t, body, "solaris_sizer_unknown_region_total 1")
	assert.Contains(t, body, "solaris_sizer_solutions_found_count 2")
	assert.Contains(t, body, "solaris_sizer_daily_energy_kwh_sum 4.6")
}

func TestMiddleware(t *testing.T) {
	m := NewManager()
	h := m.Middleware("calculate", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/calculate", nil))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/calculate?fail=1", nil))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/calculate?fail=1", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `solaris_http_requests_total{endpoint="calculate",method="POST",status_code="200"} 1`)
	assert.Contains(t, body, `solaris_http_requests_total{endpoint="calculate",method="POST",status_code="400"} 2`)
	assert.Contains(t, body, `solaris_http_request_duration_seconds_count{endpoint="calculate",method="POST"} 3`)
}

func TestDisabledManager(t *testing.T) {
	for name, m := range map[string]*Manager{
		"nil":      nil,
		"disabled": {disabled: true},
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				m.ObserveCalculation(types.AggregateLoad{}, types.SizingResult{})
				m.ObserveRejected()
			})
			assert.Nil(t, m.Registry())

			w := httptest.NewRecorder()
			m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			assert.Equal(t, http.StatusNotFound, w.Code)

			called := false
			h := m.Middleware("x", func(w http.ResponseWriter, r *http.Request) { called = true })
			h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			assert.True(t, called)
		})
	}
}
