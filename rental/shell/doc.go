// Package shell contains the imperative shell around the pure rental core.
//
// It maps between core domain events and eventstore.StorableEvent (JSON via json-iterator),
// builds event metadata, retries command executions on concurrency conflicts with exponential backoff
// and provides the observability helpers used by the observable wrappers and the view refresher.
//
// In Hexagonal Architecture terminology, this would be called the 'adapters' layer.
package shell
