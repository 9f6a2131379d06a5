// Package metrics exposes device diagnostics over a Prometheus
// endpoint on a secondary listen address.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the Prometheus registry over HTTP.
type MetricsServer struct {
	srv      *http.Server
	registry *prometheus.Registry

	poolTotal *prometheus.GaugeVec
	poolFree  *prometheus.GaugeVec
	stackUse  prometheus.Gauge
}

// New creates a metrics server for the given namespace and listen
// address.
func New(namespace, listenAddr string) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()

	poolTotal := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "memory_pool_total_bytes",
		Help:      "Total capacity of a memory pool.",
	}, []string{"pool"})
	poolFree := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "memory_pool_free_bytes",
		Help:      "Free capacity of a memory pool.",
	}, []string{"pool"})
	stackUse := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stack_bytes_in_use",
		Help:      "Bytes of goroutine stack currently in use.",
	})

	for _, collector := range []prometheus.Collector{poolTotal, poolFree, stackUse} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		srv:       &http.Server{Addr: listenAddr, Handler: mux},
		registry:  registry,
		poolTotal: poolTotal,
		poolFree:  poolFree,
		stackUse:  stackUse,
	}, nil
}

// RecordPool updates the gauges for one memory pool sample.
func (m *MetricsServer) RecordPool(name string, total, free uint64) {
	m.poolTotal.WithLabelValues(name).Set(float64(total))
	m.poolFree.WithLabelValues(name).Set(float64(free))
}

// RecordStackInUse updates the stack usage gauge.
func (m *MetricsServer) RecordStackInUse(bytes uint64) {
	m.stackUse.Set(float64(bytes))
}

// ListenAndServe blocks serving the metrics endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
