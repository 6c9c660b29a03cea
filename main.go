// main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cpustat_exporter/internal/collectors/cputime"
	"cpustat_exporter/internal/config"
	"cpustat_exporter/internal/hoststats"
	"cpustat_exporter/internal/kernel/cpustat"
	"cpustat_exporter/internal/kernel/proctable"
	"cpustat_exporter/internal/logger"
	"cpustat_exporter/internal/procfs"
	"cpustat_exporter/internal/ticker"
)

var (
	version = "0.1.0"
)

func main() {
	var (
		listenAddress = flag.String("web.listen-address", "", "Address to listen on for web interface and telemetry (overrides config).")
		metricsPath   = flag.String("web.telemetry-path", "", "Path under which to expose metrics (overrides config).")
		configPath    = flag.String("config", "", "Path to configuration file (optional).")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Configure loggers based on configuration
	if err := logger.ConfigureLogging(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure loggers: %v\n", err)
		os.Exit(1)
	}

	// Override with command line flags if provided
	if *listenAddress != "" {
		cfg.Server.ListenAddress = *listenAddress
	}
	if *metricsPath != "" {
		cfg.Server.MetricsPath = *metricsPath
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	numCPUs := cfg.Accounting.NumCPUs
	if numCPUs == 0 {
		numCPUs = hoststats.DetectCPUs()
	}

	log.Info().
		Str("version", version).
		Int("cpus", numCPUs).
		Int("hz", cfg.Clock.Hz).
		Str("listen_address", cfg.Server.ListenAddress).
		Str("metrics_path", cfg.Server.MetricsPath).
		Msg("Starting cpustat exporter")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	bootAt := time.Now()

	// Accounting engine: one manager for the life of the process, built
	// before any tick can fire.
	manager := cpustat.NewManager(numCPUs)
	log.Debug().Msg("- Accounting manager created")

	// Process table backing /proc/<pid>/environ and the fork counter.
	// The exporter registers itself so its own environ file is live.
	table := proctable.NewTable()
	table.Register(int32(os.Getpid()), filepath.Base(os.Args[0]), os.Environ())
	log.Debug().Msg("- Process table created")

	// Host-backed probes and the tick classification chain.
	sampler := hoststats.NewSampler(numCPUs)
	classifier := ticker.NewClassifier(manager, sampler, sampler, sampler)
	sampler.Bind(classifier)

	source := ticker.NewSource(cfg.Clock.Hz)
	if err := source.Register(sampler.OnTick); err != nil {
		log.Fatal().Err(err).Msg("Failed to register tick callback")
	}
	defer source.Stop()

	// Prometheus surface
	prometheus.MustRegister(cputime.NewCollector(
		manager, table, sampler, cfg.Clock.Hz, cfg.Accounting.PerCPUMetrics))
	log.Debug().Msg("- Metrics collector registered")

	// Procfs surface. A broken procfs mount at startup is a fatal boot
	// defect, not a recoverable condition.
	statFile := procfs.NewStatProducer(manager, table, sampler, sampler)
	uptimeFile := procfs.NewUptimeProducer(manager, func() time.Duration {
		return time.Since(bootAt)
	}, cfg.Clock.Hz)

	mux := http.NewServeMux()
	procfs.NewHandler(statFile, uptimeFile, table).Mount(mux)
	mux.Handle(cfg.Server.MetricsPath, promhttp.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>
            <head><title>CPU Stat Exporter</title></head>
            <body>
            <h1>CPU Stat Exporter v` + version + ` </h1>
            <p><a href="` + cfg.Server.MetricsPath + `">Metrics</a></p>
            <p><a href="/proc/stat">/proc/stat</a></p>
            <p><a href="/proc/uptime">/proc/uptime</a></p>
            </body>
            </html>`))
	})
	log.Debug().Msg("- HTTP handlers mounted")

	// Optional pprof server on a separate port, kept off the main mux.
	if cfg.Server.PprofEnabled {
		go func() {
			log.Info().Msg("Starting pprof HTTP server on localhost:6060")
			http.ListenAndServe("localhost:6060", nil)
		}()
	}

	// Start the tick source last so the first tick sees fully wired state.
	if err := source.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start tick source")
	}

	log.Info().Str("address", cfg.Server.ListenAddress).Msg("Starting HTTP server")
	srv := &http.Server{Addr: cfg.Server.ListenAddress, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	log.Info().Msg("cpustat exporter is ready and accounting ticks...")

	// Wait for context cancellation
	<-ctx.Done()
	log.Info().Msg("Received shutdown signal, shutting down gracefully...")

	source.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
	} else {
		log.Debug().Msg("HTTP server shut down cleanly")
	}

	log.Info().Msg("cpustat exporter stopped gracefully")
}
