// Package registeredclients implements the Registered Clients query use case.
package registeredclients
