package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campustracker", Name: "gate_decisions_total", Help: "Access gate outcomes per request",
	}, []string{"outcome"})
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campustracker", Name: "login_attempts_total", Help: "Login attempts by outcome",
	}, []string{"outcome"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "campustracker", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(GateDecisions, LoginAttempts, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
