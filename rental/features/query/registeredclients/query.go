package registeredclients

const (
	queryType = "RegisteredClients"
)

// Query represents the input for listing all registered clients.
type Query struct{}

// BuildQuery creates a new Query.
func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
