// Package removeitem implements the Remove Item from Catalog use case.
//
// An item can only be removed while it is not rented out.
package removeitem
