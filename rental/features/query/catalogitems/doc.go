// Package catalogitems implements the List Catalog Items query use case.
//
// The catalog is kept as a materialized view in the Persistent Store and refreshed from the
// event log before each query. Items are listed in the order they were added, a renamed item
// keeps its position. The status of an item is derived from its open rental.
package catalogitems
