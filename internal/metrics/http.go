package metrics

import "github.com/prometheus/client_golang/prometheus"

// HTTPMetrics counts error responses written by the handlers.
type HTTPMetrics struct {
	ErrorsTotal *prometheus.CounterVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		ErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Total HTTP errors by error type.",
		}, []string{"type"}),
	}

	reg.MustRegister(m.ErrorsTotal)
	return m
}
