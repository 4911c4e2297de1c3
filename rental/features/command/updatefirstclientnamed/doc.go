// Package updatefirstclientnamed implements the Update Client by Name use case.
//
// Clients are matched by their display key ("First Last"). Only the first client in
// registration order is updated, and a key that matches nobody is a silent no-op.
// The query reads the complete client registry.
package updatefirstclientnamed
