// Package removeclientsnamed implements the Remove Clients by Name use case.
//
// All clients whose display key ("First Last") matches are removed with one atomic append,
// one ClientRemoved event per client.
package removeclientsnamed
