// Package confirm implements a two-call confirmation protocol for destructive operations.
//
// A caller first requests the operation and receives a token, nothing happens yet.
// Only a second call with that token runs the operation, at most once and only before the token expires.
package confirm
