// Package testdoubles provides spies for the observability interfaces of the event store:
// a slog.Handler, a ContextualLogger, a MetricsCollector and a TracingCollector.
// All of them are safe for concurrent use.
package testdoubles
