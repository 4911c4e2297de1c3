// Package helper contains test helpers shared by the packages of the rental ledger:
// unique IDs, temporary SQLite event stores, in-memory collection stores and appending given events.
package helper
