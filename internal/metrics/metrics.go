package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "backtest_runs_total", Help: "Completed backtest runs"},
		[]string{"strategy"},
	)
	StepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "backtest_steps_total", Help: "Simulated time steps"},
	)
	SignalErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "backtest_signal_errors_total", Help: "Strategy signals rejected as invalid"},
	)
	DataWarningsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "backtest_data_warnings_total", Help: "Missing prices carried forward"},
	)
	PartialFillsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "backtest_partial_fills_total", Help: "Trades scaled down for lack of cash"},
	)
)

func init() {
	prometheus.MustRegister(RunsTotal, StepsTotal, SignalErrorsTotal, DataWarningsTotal, PartialFillsTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
