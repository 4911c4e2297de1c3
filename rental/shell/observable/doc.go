// Package observable provides wrappers that instrument command and query handlers
// with metrics, tracing and logging while keeping the handlers themselves free of infrastructure concerns.
//
// The wrappers are applied explicitly at wiring time:
//
//	coreHandler := openrental.NewCommandHandler(eventStore)
//
//	handler, err := observable.NewCommandWrapper[openrental.Command](
//		coreHandler,
//		observable.WithCommandMetrics[openrental.Command](metricsCollector),
//		observable.WithCommandTracing[openrental.Command](tracingCollector),
//		observable.WithCommandLogging[openrental.Command](logger),
//	)
//
// Commands rejected by a business rule (core.ErrNotFound, core.ErrItemUnavailable, ...) are recorded
// with status "rejected" and logged at info level. Infrastructure failures are recorded as errors.
package observable
