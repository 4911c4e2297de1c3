package openrentals

const (
	queryType = "OpenRentals"
)

// Query represents the input for listing all open rentals.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
