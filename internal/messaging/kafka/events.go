package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/fanwaves/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	EventTypeCheckoutRequested EventType = "checkout.requested"
)

// TopicCheckoutRequests: топик по умолчанию для передачи корзины в оформление.
const TopicCheckoutRequests = "fanwaves.checkout.requests"

// Kafka headers
const (
	HeaderEventType = "x-event-type"
	HeaderCartKey   = "x-cart-key"
)

// CheckoutEvent: конверт сообщения о передаче корзины.
type CheckoutEvent struct {
	EventType EventType              `json:"event_type"`
	RequestID string                 `json:"request_id"`
	Request   domain.CheckoutRequest `json:"request"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewCheckoutEvent создает событие передачи корзины в оформление.
func NewCheckoutEvent(request domain.CheckoutRequest) *CheckoutEvent {
	return &CheckoutEvent{
		EventType: EventTypeCheckoutRequested,
		RequestID: request.ID,
		Request:   request,
		Timestamp: time.Now(),
	}
}
