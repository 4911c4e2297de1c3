package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/rental/confirm"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/registerclient"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/removeclient"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/removeclientsnamed"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/updateclient"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/updatefirstclientnamed"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/registeredclients"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
)

// RegisterClient registers a new client and returns its ID.
func (l *Ledger) RegisterClient(
	ctx context.Context,
	firstName string,
	lastName string,
	phone string,
) (uuid.UUID, shell.HandlerResult, error) {

	clientID, err := l.newID()
	if err != nil {
		return uuid.Nil, shell.HandlerResult{}, errors.Join(ErrGeneratingIDFailed, err)
	}

	result, err := l.registerClient.Handle(ctx, registerclient.BuildCommand(clientID, firstName, lastName, phone, l.now()))
	if err != nil {
		return uuid.Nil, result, storageError(err)
	}

	return clientID, result, nil
}

// UpdateClient replaces name and phone of the client with the given ID.
func (l *Ledger) UpdateClient(
	ctx context.Context,
	clientID uuid.UUID,
	firstName string,
	lastName string,
	phone string,
) (shell.HandlerResult, error) {

	result, err := l.updateClient.Handle(ctx, updateclient.BuildCommand(clientID, firstName, lastName, phone, l.now()))

	return result, storageError(err)
}

// UpdateFirstClientNamed updates the first registered client whose display key ("First Last") equals matchKey.
// Nothing happens when no client matches.
func (l *Ledger) UpdateFirstClientNamed(
	ctx context.Context,
	matchKey string,
	firstName string,
	lastName string,
	phone string,
) (shell.HandlerResult, error) {

	command := updatefirstclientnamed.BuildCommand(matchKey, firstName, lastName, phone, l.now())
	result, err := l.updateFirstClientNamed.Handle(ctx, command)

	return result, storageError(err)
}

// RequestClientRemoval checks that the client exists and returns the token which confirms the removal.
func (l *Ledger) RequestClientRemoval(ctx context.Context, clientID uuid.UUID) (confirm.Pending, error) {
	command := removeclient.BuildCommand(clientID, l.now())

	err := l.precheck(ctx, removeclient.BuildEventFilter(clientID), func(history core.DomainEvents) core.DecisionResult {
		return removeclient.Decide(history, command)
	})
	if err != nil {
		return confirm.Pending{}, err
	}

	return l.confirmations.Request(KindClientRemoval, clientID.String(), func(ctx context.Context) (shell.HandlerResult, error) {
		result, handleErr := l.removeClient.Handle(ctx, removeclient.BuildCommand(clientID, l.now()))

		return result, storageError(handleErr)
	})
}

// RequestClientsNamedRemoval returns the token which confirms the removal of all clients whose display key
// equals matchKey. The confirmed result reports the number of removed clients in AppendedEvents.
func (l *Ledger) RequestClientsNamedRemoval(ctx context.Context, matchKey string) (confirm.Pending, error) {
	command := removeclientsnamed.BuildCommand(matchKey, l.now())

	err := l.precheck(ctx, removeclientsnamed.BuildEventFilter(), func(history core.DomainEvents) core.DecisionResult {
		return removeclientsnamed.Decide(history, command)
	})
	if err != nil {
		return confirm.Pending{}, err
	}

	return l.confirmations.Request(KindClientsNamedRemoval, command.MatchKey, func(ctx context.Context) (shell.HandlerResult, error) {
		result, handleErr := l.removeClientsNamed.Handle(ctx, removeclientsnamed.BuildCommand(command.MatchKey, l.now()))

		return result, storageError(handleErr)
	})
}

// ListClients lists the current clients in registration order.
func (l *Ledger) ListClients(ctx context.Context) (registeredclients.RegisteredClients, error) {
	return l.registeredClients.Handle(ctx, registeredclients.BuildQuery())
}
