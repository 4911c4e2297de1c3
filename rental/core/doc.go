// Package core contains the domain events and the pure business rules of the board game rental ledger.
//
// Domain events describe meaningful business occurrences like ItemAddedToCatalog or RentalOpened instead of
// generic create/update operations. A single RentalOpened event carries the whole effect of opening a rental:
// the item becomes unavailable, the rental is open and the history gets an Open entry.
//
// All domain events implement the DomainEvent interface for event sourcing integration.
// Pricing and date rules (rental days, cost, late fee) live here as well, so that the Decide functions
// of the features and the read models compute money the same way.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
