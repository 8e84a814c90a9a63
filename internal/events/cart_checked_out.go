package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	CartCheckedOutEventName    = "CartCheckedOut"
	CartCheckedOutEventVersion = 1
	cartCheckedOutSchema       = "contracts/events/storefront/CartCheckedOut.v1.enveloped.schema.json"
)

type EventEnvelope struct {
	EventName     string                `json:"eventName"`
	EventVersion  int                   `json:"eventVersion"`
	EventID       string                `json:"eventId"`
	CorrelationID string                `json:"correlationId,omitempty"`
	Producer      string                `json:"producer"`
	PartitionKey  string                `json:"partitionKey"`
	Sequence      int64                 `json:"sequence"`
	OccurredAt    time.Time             `json:"occurredAt"`
	Schema        string                `json:"schema"`
	Payload       CartCheckedOutPayload `json:"payload"`
}

// CartCheckedOutPayload describes an order placed from a session's cart.
// Amounts are whole rupiah.
type CartCheckedOutPayload struct {
	OrderID     string               `json:"orderId"`
	SessionID   string               `json:"sessionId"`
	TableNumber int                  `json:"tableNumber"`
	Items       []CartCheckedOutItem `json:"items"`
	TotalAmount int64                `json:"totalAmount"`
	Timestamp   time.Time            `json:"timestamp"`
}

type CartCheckedOutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type EventMeta struct {
	CorrelationID string
	PartitionKey  string
}

func newCartCheckedOutEvent(meta EventMeta, seq int64, producer string, payload CartCheckedOutPayload, occurredAt time.Time) EventEnvelope {
	if payload.Timestamp.IsZero() {
		payload.Timestamp = occurredAt
	}
	return EventEnvelope{
		EventName:     CartCheckedOutEventName,
		EventVersion:  CartCheckedOutEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		Producer:      producer,
		PartitionKey:  meta.PartitionKey,
		Sequence:      seq,
		OccurredAt:    occurredAt,
		Schema:        cartCheckedOutSchema,
		Payload:       payload,
	}
}
