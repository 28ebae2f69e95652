package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVoteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewVoteMetrics(reg)

	m.VotesProcessed.WithLabelValues("applied").Inc()
	m.VotesProcessed.WithLabelValues("applied").Inc()
	m.Transitions.WithLabelValues("none", "liked").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.VotesProcessed.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("none", "liked")))

	assert.Panics(t, func() { NewVoteMetrics(reg) }, "registering twice must fail")
}

func TestHandler(t *testing.T) {
	reg := NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ErrorsTotal.WithLabelValues("validation").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ask_http_errors_total{type="validation"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
