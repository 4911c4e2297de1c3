package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
)

const (
	sessionPrompt          = "> "
	metricsShutdownTimeout = 5 * time.Second
)

var errUnterminatedQuote = errors.New("unterminated quote")

// runSession reads one subcommand per line until "exit", end of input or a signal.
// Failing subcommands are reported and the session goes on.
func runSession(ctx context.Context, a *app, args []string) error {
	if err := exactArgs("session", args, 0); err != nil {
		return err
	}

	stopMetrics := a.serveMetrics()
	defer stopMetrics()

	for ctx.Err() == nil {
		if _, err := fmt.Fprint(a.stdout, sessionPrompt); err != nil {
			return err
		}

		line, readErr := a.stdin.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}

		fields, err := splitFields(line)
		switch {
		case err != nil:
			_, _ = fmt.Fprintf(a.stderr, "error: %v\n", err)
		case len(fields) == 0:
		case fields[0] == "exit" || fields[0] == "quit":
			return nil
		case fields[0] == "session":
			_, _ = fmt.Fprintln(a.stderr, "error: already in a session")
		default:
			if err := a.dispatch(ctx, fields); err != nil {
				_, _ = fmt.Fprintf(a.stderr, "error: %v\n", err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}
	}

	return nil
}

// serveMetrics exposes /metrics on the configured address when Prometheus is selected.
// The returned function stops the server.
func (a *app) serveMetrics() func() {
	if a.obs.MetricsHandler == nil {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.obs.MetricsHandler)

	server := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			a.logger.Error("metrics server shutdown failed", "error", err)
		}
	}
}

// splitFields splits a session line at white space. Double quotes group words, e.g. "Ticket to Ride".
func splitFields(line string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		inQuote bool
		inField bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inField = true
		case unicode.IsSpace(r) && !inQuote:
			if inField {
				fields = append(fields, current.String())
				current.Reset()
				inField = false
			}
		default:
			current.WriteRune(r)
			inField = true
		}
	}

	if inQuote {
		return nil, errUnterminatedQuote
	}
	if inField {
		fields = append(fields, current.String())
	}

	return fields, nil
}
