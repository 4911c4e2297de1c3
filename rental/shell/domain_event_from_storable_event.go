package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/tabletop-rentals/rental-ledger-go/eventstore"
	"github.com/tabletop-rentals/rental-ledger-go/rental/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.ItemAddedToCatalogEventType:
		return unmarshalDomainEvent[core.ItemAddedToCatalog](storableEvent.PayloadJSON)

	case core.ItemRenamedEventType:
		return unmarshalDomainEvent[core.ItemRenamed](storableEvent.PayloadJSON)

	case core.ItemRemovedFromCatalogEventType:
		return unmarshalDomainEvent[core.ItemRemovedFromCatalog](storableEvent.PayloadJSON)

	case core.ClientRegisteredEventType:
		return unmarshalDomainEvent[core.ClientRegistered](storableEvent.PayloadJSON)

	case core.ClientUpdatedEventType:
		return unmarshalDomainEvent[core.ClientUpdated](storableEvent.PayloadJSON)

	case core.ClientRemovedEventType:
		return unmarshalDomainEvent[core.ClientRemoved](storableEvent.PayloadJSON)

	case core.RentalOpenedEventType:
		return unmarshalDomainEvent[core.RentalOpened](storableEvent.PayloadJSON)

	case core.RentalClosedEventType:
		return unmarshalDomainEvent[core.RentalClosed](storableEvent.PayloadJSON)

	case core.HistoryClearedEventType:
		return unmarshalDomainEvent[core.HistoryCleared](storableEvent.PayloadJSON)

	case core.HistoryEntryImportedEventType:
		return unmarshalDomainEvent[core.HistoryEntryImported](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalDomainEvent[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(E)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload)
	if err != nil {
		return *new(E), errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}
