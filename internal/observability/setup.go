package observability

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/iamwavecut/ngwarden"

var (
	registerOnce sync.Once

	moderationActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Total number of moderation actions taken",
		},
		[]string{"action"},
	)

	updateProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_processing_duration_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind", "status"},
	)
)

// Init registers metrics and installs the tracer provider. The returned
// function flushes and stops the provider.
func Init(ctx context.Context) (func(context.Context) error, error) {
	registerOnce.Do(func() {
		prometheus.MustRegister(moderationActionsTotal)
		prometheus.MustRegister(updateProcessingDuration)
	})

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentationName + "/" + component)
}

// RecordAction counts a moderation action such as "ban" or "flood_mute".
func RecordAction(action string) {
	moderationActionsTotal.WithLabelValues(action).Inc()
}

// StartUpdateProcessing returns a function that records the elapsed time with the final status.
func StartUpdateProcessing(kind string) func(status string) {
	start := time.Now()
	return func(status string) {
		updateProcessingDuration.WithLabelValues(kind, status).Observe(time.Since(start).Seconds())
	}
}

// MetricsServer exposes /metrics and is run as a lifecycle component.
type MetricsServer struct {
	srv *http.Server
}

func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &MetricsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (m *MetricsServer) Start(ctx context.Context) error {
	go func() {
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()
	log.WithField("addr", m.srv.Addr).Info("metrics server started")
	return nil
}

func (m *MetricsServer) Stop(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
