package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen
func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validTime := time.Now()
	validPayloadJSON := []byte(`{"ItemName": "Catan"}`)
	validMetadataJSON := []byte(`{"MessageID": "m-1"}`)

	tests := []struct {
		name         string
		eventType    string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{
			name:         "empty event type",
			eventType:    "",
			payloadJSON:  validPayloadJSON,
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrEmptyEventType,
		},
		{
			name:         "invalid payload JSON",
			eventType:    "ItemAddedToCatalog",
			payloadJSON:  []byte(`{"invalid": json}`),
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "invalid metadata JSON",
			eventType:    "ItemAddedToCatalog",
			payloadJSON:  validPayloadJSON,
			metadataJSON: []byte(`{"invalid": json}`),
			expectedErr:  ErrInvalidMetadataJSON,
		},
		{
			name:         "empty payload JSON",
			eventType:    "ItemAddedToCatalog",
			payloadJSON:  []byte(``),
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "nil metadata JSON",
			eventType:    "ItemAddedToCatalog",
			payloadJSON:  validPayloadJSON,
			metadataJSON: nil,
			expectedErr:  ErrInvalidMetadataJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			event, err := BuildStorableEvent(tt.eventType, validTime, tt.payloadJSON, tt.metadataJSON)

			// assert
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, StorableEvent{}, event)
		})
	}
}

func Test_BuildStorableEvent_Success(t *testing.T) {
	// arrange
	occurredAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// act
	event, err := BuildStorableEvent("RentalOpened", occurredAt, []byte(`{"Cost": 10}`), []byte(`{}`))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "RentalOpened", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.JSONEq(t, `{"Cost": 10}`, string(event.PayloadJSON))
	assert.Equal(t, uint(0), event.SequenceNumber)
}

func Test_BuildStorableEventWithEmptyMetadata_Success(t *testing.T) {
	// act
	event, err := BuildStorableEventWithEmptyMetadata("HistoryCleared", time.Now(), []byte(`{}`))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), event.MetadataJSON)
}

func Test_RebuildStorableEvent_CarriesSequenceNumber(t *testing.T) {
	// act
	event, err := RebuildStorableEvent("ItemAddedToCatalog", time.Now(), []byte(`{}`), []byte(`{}`), 7)

	// assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), event.SequenceNumber)
}
