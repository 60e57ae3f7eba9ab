// Package metrics exposes operational counters for the bonding ledger via
// Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors bundles the ledger's Prometheus instruments.
type Collectors struct {
	// Operations counts public ledger operations by name and outcome.
	Operations *prometheus.CounterVec

	// SlashesApplied counts successful slash applications.
	SlashesApplied prometheus.Counter

	// BondsActive tracks the number of currently active bonds.
	BondsActive prometheus.Gauge
}

// NewCollectors creates and registers the ledger instruments on reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bonding",
			Name:      "operations_total",
			Help:      "Ledger operations by name and outcome.",
		}, []string{"op", "outcome"}),
		SlashesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bonding",
			Name:      "slashes_applied_total",
			Help:      "Successful slash applications.",
		}),
		BondsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bonding",
			Name:      "bonds_active",
			Help:      "Number of currently active bonds.",
		}),
	}
	reg.MustRegister(c.Operations, c.SlashesApplied, c.BondsActive)
	return c
}

// OpProcessed records one completed operation. Failed operations are
// labeled by outcome "error".
func (c *Collectors) OpProcessed(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Operations.WithLabelValues(op, outcome).Inc()
}

// Serve exposes the registry on addr under /metrics until ctx is done.
// The returned channel delivers the terminal server error.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) <-chan error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}
	errs := make(chan error, 1)

	go func() {
		errs <- srv.ListenAndServe()
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return errs
}
