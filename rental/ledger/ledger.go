package ledger

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tabletop-rentals/rental-ledger-go/collection"
	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/confirm"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/additem"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/clearhistory"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/closerental"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/openrental"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/registerclient"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/removeclient"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/removeclientsnamed"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/removeitem"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/renameitem"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/updateclient"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/command/updatefirstclientnamed"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/catalogitems"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/openrentals"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/registeredclients"
	"github.com/tabletop-rentals/rental-ledger-go/rental/features/query/rentalhistory"
	"github.com/tabletop-rentals/rental-ledger-go/rental/legacyimport"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/observable"
	"github.com/tabletop-rentals/rental-ledger-go/rental/shell/views"
)

const defaultConfirmationTTL = 5 * time.Minute

// Ledger is the entry point for all rental ledger operations. It is safe for concurrent use.
type Ledger struct {
	eventStore       shell.EventStore
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	now              func() time.Time
	newID            func() (uuid.UUID, error)
	confirmationTTL  time.Duration
	retryOptions     []shell.RetryOption

	confirmations *confirm.Registry[shell.HandlerResult]
	importer      legacyimport.Importer

	addItem                shell.CoreCommandHandler[additem.Command]
	renameItem             shell.CoreCommandHandler[renameitem.Command]
	removeItem             shell.CoreCommandHandler[removeitem.Command]
	registerClient         shell.CoreCommandHandler[registerclient.Command]
	updateClient           shell.CoreCommandHandler[updateclient.Command]
	updateFirstClientNamed shell.CoreCommandHandler[updatefirstclientnamed.Command]
	removeClient           shell.CoreCommandHandler[removeclient.Command]
	removeClientsNamed     shell.CoreCommandHandler[removeclientsnamed.Command]
	openRental             shell.CoreCommandHandler[openrental.Command]
	closeRental            shell.CoreCommandHandler[closerental.Command]
	clearHistory           shell.CoreCommandHandler[clearhistory.Command]

	catalogItems      shell.CoreQueryHandler[catalogitems.Query, catalogitems.CatalogItems]
	registeredClients shell.CoreQueryHandler[registeredclients.Query, registeredclients.RegisteredClients]
	openRentals       shell.CoreQueryHandler[openrentals.Query, openrentals.OpenRentals]
	rentalHistory     shell.CoreQueryHandler[rentalhistory.Query, rentalhistory.RentalHistory]
}

// New wires a Ledger on top of an event store and the collection store that keeps the views.
func New(eventStore shell.EventStore, collections *collection.Store, opts ...Option) (*Ledger, error) {
	if eventStore == nil || collections == nil {
		return nil, ErrNilDependency
	}

	l := &Ledger{
		eventStore:      eventStore,
		now:             time.Now,
		newID:           uuid.NewV7,
		confirmationTTL: defaultConfirmationTTL,
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	confirmations, err := confirm.NewRegistry[shell.HandlerResult](
		confirm.WithTTL(l.confirmationTTL),
		confirm.WithClock(l.now),
	)
	if err != nil {
		return nil, err
	}
	l.confirmations = confirmations

	importOptions := []legacyimport.Option{
		legacyimport.WithClock(l.now),
		legacyimport.WithIDGenerator(l.newID),
	}
	if l.logger != nil {
		importOptions = append(importOptions, legacyimport.WithLogger(l.logger))
	}
	l.importer = legacyimport.NewImporter(eventStore, importOptions...)

	if err = l.wireCommandHandlers(); err != nil {
		return nil, err
	}

	if err = l.wireQueryHandlers(collections); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Ledger) wireCommandHandlers() error {
	var err error

	if l.addItem, err = wrapCommand[additem.Command](l, additem.NewCommandHandler(
		l.eventStore, additem.WithRetryOptions(l.retryOptionsFor(additem.Command{})...),
	)); err != nil {
		return err
	}

	if l.renameItem, err = wrapCommand[renameitem.Command](l, renameitem.NewCommandHandler(
		l.eventStore, renameitem.WithRetryOptions(l.retryOptionsFor(renameitem.Command{})...),
	)); err != nil {
		return err
	}

	if l.removeItem, err = wrapCommand[removeitem.Command](l, removeitem.NewCommandHandler(
		l.eventStore, removeitem.WithRetryOptions(l.retryOptionsFor(removeitem.Command{})...),
	)); err != nil {
		return err
	}

	if l.registerClient, err = wrapCommand[registerclient.Command](l, registerclient.NewCommandHandler(
		l.eventStore, registerclient.WithRetryOptions(l.retryOptionsFor(registerclient.Command{})...),
	)); err != nil {
		return err
	}

	if l.updateClient, err = wrapCommand[updateclient.Command](l, updateclient.NewCommandHandler(
		l.eventStore, updateclient.WithRetryOptions(l.retryOptionsFor(updateclient.Command{})...),
	)); err != nil {
		return err
	}

	if l.updateFirstClientNamed, err = wrapCommand[updatefirstclientnamed.Command](l, updatefirstclientnamed.NewCommandHandler(
		l.eventStore, updatefirstclientnamed.WithRetryOptions(l.retryOptionsFor(updatefirstclientnamed.Command{})...),
	)); err != nil {
		return err
	}

	if l.removeClient, err = wrapCommand[removeclient.Command](l, removeclient.NewCommandHandler(
		l.eventStore, removeclient.WithRetryOptions(l.retryOptionsFor(removeclient.Command{})...),
	)); err != nil {
		return err
	}

	if l.removeClientsNamed, err = wrapCommand[removeclientsnamed.Command](l, removeclientsnamed.NewCommandHandler(
		l.eventStore, removeclientsnamed.WithRetryOptions(l.retryOptionsFor(removeclientsnamed.Command{})...),
	)); err != nil {
		return err
	}

	if l.openRental, err = wrapCommand[openrental.Command](l, openrental.NewCommandHandler(
		l.eventStore, openrental.WithRetryOptions(l.retryOptionsFor(openrental.Command{})...),
	)); err != nil {
		return err
	}

	if l.closeRental, err = wrapCommand[closerental.Command](l, closerental.NewCommandHandler(
		l.eventStore, closerental.WithRetryOptions(l.retryOptionsFor(closerental.Command{})...),
	)); err != nil {
		return err
	}

	if l.clearHistory, err = wrapCommand[clearhistory.Command](l, clearhistory.NewCommandHandler(
		l.eventStore, clearhistory.WithRetryOptions(l.retryOptionsFor(clearhistory.Command{})...),
	)); err != nil {
		return err
	}

	return nil
}

func (l *Ledger) wireQueryHandlers(collections *collection.Store) error {
	var refresherOptions []views.Option
	if l.logger != nil {
		refresherOptions = append(refresherOptions, views.WithLogging(l.logger))
	}
	if l.contextualLogger != nil {
		refresherOptions = append(refresherOptions, views.WithContextualLogging(l.contextualLogger))
	}
	if l.metricsCollector != nil {
		refresherOptions = append(refresherOptions, views.WithMetrics(l.metricsCollector))
	}
	if l.tracingCollector != nil {
		refresherOptions = append(refresherOptions, views.WithTracing(l.tracingCollector))
	}

	refresher, err := views.NewRefresher(l.eventStore, collections, refresherOptions...)
	if err != nil {
		return err
	}

	if l.catalogItems, err = wrapQuery[catalogitems.Query, catalogitems.CatalogItems](
		l, catalogitems.NewQueryHandler(refresher),
	); err != nil {
		return err
	}

	if l.registeredClients, err = wrapQuery[registeredclients.Query, registeredclients.RegisteredClients](
		l, registeredclients.NewQueryHandler(refresher),
	); err != nil {
		return err
	}

	if l.openRentals, err = wrapQuery[openrentals.Query, openrentals.OpenRentals](
		l, openrentals.NewQueryHandler(refresher),
	); err != nil {
		return err
	}

	if l.rentalHistory, err = wrapQuery[rentalhistory.Query, rentalhistory.RentalHistory](
		l, rentalhistory.NewQueryHandler(refresher),
	); err != nil {
		return err
	}

	return nil
}

func (l *Ledger) retryOptionsFor(command shell.Command) []shell.RetryOption {
	options := slices.Clone(l.retryOptions)
	if l.metricsCollector != nil {
		options = append(options, shell.WithMetrics(l.metricsCollector, command.CommandType()))
	}

	return options
}

func wrapCommand[C shell.Command](l *Ledger, handler shell.CoreCommandHandler[C]) (shell.CoreCommandHandler[C], error) {
	var opts []observable.CommandOption[C]
	if l.logger != nil {
		opts = append(opts, observable.WithCommandLogging[C](l.logger))
	}
	if l.contextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C](l.contextualLogger))
	}
	if l.metricsCollector != nil {
		opts = append(opts, observable.WithCommandMetrics[C](l.metricsCollector))
	}
	if l.tracingCollector != nil {
		opts = append(opts, observable.WithCommandTracing[C](l.tracingCollector))
	}

	return observable.NewCommandWrapper[C](handler, opts...)
}

func wrapQuery[Q shell.Query, R shell.QueryResult](
	l *Ledger,
	handler shell.CoreQueryHandler[Q, R],
) (shell.CoreQueryHandler[Q, R], error) {

	var opts []observable.QueryOption[Q, R]
	if l.logger != nil {
		opts = append(opts, observable.WithQueryLogging[Q, R](l.logger))
	}
	if l.contextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](l.contextualLogger))
	}
	if l.metricsCollector != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](l.metricsCollector))
	}
	if l.tracingCollector != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](l.tracingCollector))
	}

	return observable.NewQueryWrapper[Q, R](handler, opts...)
}

// precheck runs a decision against the current event log without appending anything.
// Requests for destructive operations use it to fail early, the confirmed command decides again.
func (l *Ledger) precheck(
	ctx context.Context,
	filter eventstore.Filter,
	decide func(history core.DomainEvents) core.DecisionResult,
) error {

	storableEvents, _, err := l.eventStore.Query(ctx, filter)
	if err != nil {
		return err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return err
	}

	return decide(history).HasError()
}
