package prometheus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prom.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of handled requests",
			Buckets: prom.DefBuckets,
		}, []string{"op", "code"},
	)

	pairingEvents = promauto.NewCounterVec(
		prom.CounterOpts{
			Name: "pairing_events_total",
			Help: "Pairing coordinator outcomes",
		}, []string{"event"},
	)

	presenceSessions = promauto.NewGauge(
		prom.GaugeOpts{
			Name: "presence_sessions",
			Help: "Live presence sessions",
		},
	)

	presenceWrites = promauto.NewCounterVec(
		prom.CounterOpts{
			Name: "presence_writes_total",
			Help: "Presence writes applied to the device store",
		}, []string{"op", "result"},
	)

	wsClients = promauto.NewGaugeVec(
		prom.GaugeOpts{
			Name: "ws_clients",
			Help: "Connected websocket clients",
		}, []string{"channel"},
	)
)

func ObserveRequest(d time.Duration, status int, op string) {
	requestDuration.WithLabelValues(op, strconv.Itoa(status)).Observe(d.Seconds())
}

func IncPairing(event string) {
	pairingEvents.WithLabelValues(event).Inc()
}

func SetSessions(n int) {
	presenceSessions.Set(float64(n))
}

func ObserveWrite(op string, err error) {
	res := "ok"
	if err != nil {
		res = "error"
	}
	presenceWrites.WithLabelValues(op, res).Inc()
}

func AddClients(channel string, delta int) {
	wsClients.WithLabelValues(channel).Add(float64(delta))
}

type Metrics struct {
	srv *http.Server
}

func New(port int) *Metrics {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Metrics{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%v", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (m *Metrics) Start(ctx context.Context) {
	go func() {
		zap.L().Info("Starting metrics server", zap.String("addr", m.srv.Addr))
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Metrics server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Debug("Error shutting down metrics server", zap.Error(err))
	}
	zap.L().Info("Metrics server has been stopped")
}
