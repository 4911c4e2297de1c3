package catalogitems

import (
	"strings"
)

const (
	queryType = "CatalogItems"
)

// Query represents the input for listing the catalog.
// An empty NameFilter lists all items, otherwise only names containing it (case-insensitive).
type Query struct {
	NameFilter string
}

// BuildQuery creates a new Query.
func BuildQuery(nameFilter string) Query {
	return Query{NameFilter: strings.TrimSpace(nameFilter)}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
