// Package main implements a load generator for the rental ledger
// with a configurable request rate and a mix of catalog and rental scenarios.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/tabletop-rentals/rental-ledger-go/rental/ledger"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/config"
)

const (
	defaultRate            = 30
	defaultInitialItems    = 100
	defaultInitialClients  = 20
	defaultScenarioWeights = "20,80" // catalog, rental
)

// Config holds the load generator settings given on the command line.
type Config struct {
	Rate            int
	Duration        time.Duration
	InitialItems    int
	InitialClients  int
	ScenarioWeights []int
	DailyRate       int
}

func main() {
	appCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	cfg, err := parseFlags(os.Args[1:], appCfg.DefaultDailyRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if err := run(appCfg, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "load generator failed: %v\n", err)
		os.Exit(1)
	}
}

func run(appCfg config.Config, cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	logger, err := config.NewLogger(appCfg, os.Stderr)
	if err != nil {
		return err
	}

	obs, err := config.NewObservability(ctx, appCfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = obs.Shutdown() }()

	eventStore, closeEventStore, err := config.OpenEventStore(ctx, appCfg, obs)
	if err != nil {
		return err
	}
	defer func() { _ = closeEventStore() }()

	collections, closeCollections, err := config.OpenCollectionStore(ctx, appCfg, obs)
	if err != nil {
		return err
	}
	defer func() { _ = closeCollections() }()

	l, err := ledger.New(
		eventStore,
		collections,
		ledger.WithLogger(obs.Logger),
		ledger.WithContextualLogger(obs.ContextualLogger),
		ledger.WithMetrics(obs.Metrics),
		ledger.WithTracing(obs.Tracing),
	)
	if err != nil {
		return err
	}

	if obs.MetricsHandler != nil {
		metricsServer := serveMetrics(appCfg.MetricsAddr, obs.MetricsHandler, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	loadGen := NewLoadGenerator(l, cfg, logger)
	if err := loadGen.Seed(ctx); err != nil {
		return err
	}

	logger.Info("load generator started",
		"rate", cfg.Rate,
		"initial_items", cfg.InitialItems,
		"initial_clients", cfg.InitialClients,
		"scenario_weights", cfg.ScenarioWeights,
	)

	loadGen.Run(ctx)

	logger.Info("load generator stopped")

	return nil
}

func serveMetrics(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return server
}

func parseFlags(args []string, defaultDailyRate int) (Config, error) {
	fs := flag.NewFlagSet("rental-loadgen", flag.ContinueOnError)

	var (
		rate            = fs.Int("rate", defaultRate, "Scenarios per second")
		duration        = fs.Duration("duration", 0, "Stop after this duration, 0 runs until interrupted")
		initialItems    = fs.Int("initial-items", defaultInitialItems, "Number of items to add initially")
		initialClients  = fs.Int("initial-clients", defaultInitialClients, "Number of clients to register initially")
		scenarioWeights = fs.String("scenario-weights", defaultScenarioWeights, "Comma-separated weights for catalog,rental scenarios")
		dailyRate       = fs.Int("daily-rate", defaultDailyRate, "Daily rate of opened rentals")
	)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *rate < 1 {
		return Config{}, fmt.Errorf("rate must be at least 1, got %d", *rate)
	}

	weights, err := parseScenarioWeights(*scenarioWeights)
	if err != nil {
		return Config{}, fmt.Errorf("invalid scenario weights '%s': %w", *scenarioWeights, err)
	}

	return Config{
		Rate:            *rate,
		Duration:        *duration,
		InitialItems:    *initialItems,
		InitialClients:  *initialClients,
		ScenarioWeights: weights,
		DailyRate:       *dailyRate,
	}, nil
}

func parseScenarioWeights(weightsStr string) ([]int, error) {
	parts := strings.Split(weightsStr, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected 2 weights, got %d", len(parts))
	}

	weights := make([]int, 2)
	total := 0
	for i, part := range parts {
		weight, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid weight '%s': %w", part, err)
		}
		if weight < 0 || weight > 100 {
			return nil, fmt.Errorf("weight %d out of range [0, 100]", weight)
		}
		weights[i] = weight
		total += weight
	}

	if total != 100 {
		return nil, fmt.Errorf("weights must sum to 100, got %d", total)
	}

	return weights, nil
}
