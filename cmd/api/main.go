package main

import (
	"bufio"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/api"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/buildinfo"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/config"
	"github.com/FidhaAhamed/Quantum-Traffic-Priority-Routing/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()
	path := *cfgPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	metrics.RegisterDefault()

	srvDeps, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	mux := http.NewServeMux()

	// Scenarios and optimization
	mux.HandleFunc("/v1/scenario", srvDeps.ScenarioHandler)
	mux.HandleFunc("/v1/optimize", srvDeps.OptimizeHandler)

	// Run history, includes /v1/runs/{id}/events/ws
	mux.HandleFunc("/v1/runs", srvDeps.RunsHandler)
	mux.HandleFunc("/v1/runs/", srvDeps.RunByIDHandler)

	// Health and telemetry
	mux.HandleFunc("/healthz", srvDeps.HealthzHandler)
	mux.HandleFunc("/readyz", srvDeps.ReadyzHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           logMiddleware(metricsMiddleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("API %s listening on %s", buildinfo.Version, addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		dur := time.Since(start)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Hijack keeps websocket upgrades working through the wrapper.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		status := strconv.Itoa(rec.status)
		metrics.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}
