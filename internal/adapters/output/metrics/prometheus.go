package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"alto-client/internal/ports/output"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure Recorder implements the Recorder interface
var _ output.Recorder = (*Recorder)(nil)

// Recorder struct - Prometheus implementation of the client metrics port
type Recorder struct {
	registry       *prometheus.Registry
	tokenRefreshes *prometheus.CounterVec
	requestRetries prometheus.Counter
	chatTurns      *prometheus.HistogramVec
}

// NewRecorder registers the client metrics on a private registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alto_client",
			Name:      "token_refresh_total",
			Help:      "Access token refresh attempts by result.",
		}, []string{"result"}),
		requestRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alto_client",
			Name:      "request_retries_total",
			Help:      "Requests re-sent after a silent token refresh.",
		}),
		chatTurns: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "alto_client",
			Name:      "chat_turn_duration_seconds",
			Help:      "Duration of interview chat calls by outcome.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.tokenRefreshes, r.requestRetries, r.chatTurns)
	return r
}

// TokenRefresh func
func (r *Recorder) TokenRefresh(result string) {
	r.tokenRefreshes.WithLabelValues(result).Inc()
}

// RequestRetry func
func (r *Recorder) RequestRetry() {
	r.requestRetries.Inc()
}

// ChatTurn func
func (r *Recorder) ChatTurn(outcome string, elapsed time.Duration) {
	r.chatTurns.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on address until ctx is cancelled
func (r *Recorder) Serve(ctx context.Context, address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logrus.Infof("Serving metrics on %s/metrics", address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
