// Package config loads the rental ledger configuration from RENTAL_* environment variables
// (optionally from a .env file) and builds the infrastructure from it: the logger, the observability
// collectors, the event store engine and the Persistent Store backend.
package config
