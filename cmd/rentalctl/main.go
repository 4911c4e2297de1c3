// Command rentalctl runs the rental ledger from the command line.
//
// Every invocation executes one subcommand against the configured event store and collection backend.
// The "session" subcommand reads subcommands line by line from stdin until "exit" and serves the
// Prometheus /metrics endpoint while it runs.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tabletop-rentals/rental-ledger-go/rental/ledger"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/config"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, config.Load)
	exitFunc(code)
}

// cli parses the global flags, wires the ledger from the loaded configuration and runs one subcommand.
// It returns the process exit code: 0 on success, 1 on failure and 2 on usage errors.
func cli(
	args []string,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	loadConfig func() (config.Config, error),
) int {

	fs := flag.NewFlagSet("rentalctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	assumeYes := fs.Bool("yes", false, "confirm removals without asking")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "rentalctl: load config: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := newApp(ctx, cfg, stdin, stdout, stderr, *assumeYes)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "rentalctl: %v\n", err)
		return 1
	}
	defer cleanup()

	if err := a.dispatch(ctx, fs.Args()); err != nil {
		_, _ = fmt.Fprintf(stderr, "rentalctl: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}

	return 0
}

// app holds the wired ledger and the terminal streams of one invocation.
type app struct {
	cfg       config.Config
	ledger    *ledger.Ledger
	obs       *config.Observability
	logger    *slog.Logger
	stdin     *bufio.Reader
	stdout    io.Writer
	stderr    io.Writer
	assumeYes bool
}

func newApp(
	ctx context.Context,
	cfg config.Config,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	assumeYes bool,
) (*app, func(), error) {

	logger, err := config.NewLogger(cfg, stderr)
	if err != nil {
		return nil, nil, err
	}

	obs, err := config.NewObservability(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("set up observability: %w", err)
	}

	eventStore, closeEventStore, err := config.OpenEventStore(ctx, cfg, obs)
	if err != nil {
		_ = obs.Shutdown()
		return nil, nil, fmt.Errorf("open event store: %w", err)
	}

	collections, closeCollections, err := config.OpenCollectionStore(ctx, cfg, obs)
	if err != nil {
		_ = closeEventStore()
		_ = obs.Shutdown()
		return nil, nil, fmt.Errorf("open collection store: %w", err)
	}

	cleanup := func() {
		if err := closeCollections(); err != nil {
			logger.Warn("closing collection store failed", "error", err)
		}
		if err := closeEventStore(); err != nil {
			logger.Warn("closing event store failed", "error", err)
		}
		if err := obs.Shutdown(); err != nil {
			logger.Warn("observability shutdown failed", "error", err)
		}
	}

	l, err := ledger.New(
		eventStore,
		collections,
		ledger.WithLogger(obs.Logger),
		ledger.WithContextualLogger(obs.ContextualLogger),
		ledger.WithMetrics(obs.Metrics),
		ledger.WithTracing(obs.Tracing),
		ledger.WithConfirmationTTL(cfg.ConfirmationTTL),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire ledger: %w", err)
	}

	a := &app{
		cfg:       cfg,
		ledger:    l,
		obs:       obs,
		logger:    logger,
		stdin:     bufio.NewReader(stdin),
		stdout:    stdout,
		stderr:    stderr,
		assumeYes: assumeYes,
	}

	return a, cleanup, nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintln(w, "usage: rentalctl [-yes] <command> [arguments]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "commands:")
	for _, c := range commandList() {
		_, _ = fmt.Fprintf(w, "  %-22s %s\n", c.name, c.summary)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "global flags:")
	fs.PrintDefaults()
}
