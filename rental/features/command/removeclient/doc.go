// Package removeclient implements the Remove Client use case.
package removeclient
