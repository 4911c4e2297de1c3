package rentalhistory

const (
	queryType = "RentalHistory"
)

// Query represents the input for listing the rental history.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
