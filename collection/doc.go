// Package collection is the Persistent Store of the rental ledger.
//
// It keeps named collections of records (catalog, clients, rentals, history) as JSON documents
// of the form {"sequenceNumber": N, "records": [...]} on a pluggable Backend. N is the sequence number
// of the last event log entry the records reflect, so a reader can catch up incrementally.
//
// A missing collection loads as an empty document. A malformed one is reset to an empty document,
// which is persisted, and Load reports ErrStorageCorrupt next to the empty document.
// Save replaces the whole document and retries transient backend failures.
package collection
