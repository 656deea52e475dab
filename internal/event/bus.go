package event

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tausif1337/remart/internal/domain"
)

// Event topic constants for storefront state changes.
const (
	TopicCartUpdated     = "remart.cart.updated"
	TopicCartCleared     = "remart.cart.cleared"
	TopicWishlistUpdated = "remart.wishlist.updated"
	TopicOrderPlaced     = "remart.order.placed"
)

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     float64           `json:"total"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	Items []domain.Product `json:"items"`
	Count int              `json:"count"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID       string  `json:"order_id"`
	UserID        string  `json:"user_id"`
	TotalAmount   float64 `json:"total_amount"`
	TransactionID string  `json:"transaction_id"`
}

// Event is a typed state-change notification delivered to subscribers.
type Event struct {
	Topic      string    `json:"topic"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Bus is an in-process publish/subscribe bus for storefront state changes.
// The presentation layer subscribes to drive user feedback (badges, toasts)
// without polling the stores. Delivery is best-effort: a subscriber with a
// full channel misses the event rather than blocking the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	logger *slog.Logger
	closed bool
}

// NewBus creates an event bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a new subscriber and returns its receive channel.
// The channel is buffered; slow consumers drop events instead of blocking
// store mutations.
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 64)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers an event to all subscribers without blocking.
func (b *Bus) Publish(topic string, data any) {
	evt := Event{
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.logger.Warn("event dropped, subscriber channel full",
				slog.String("topic", topic),
			)
		}
	}
}

// Close closes all subscriber channels. Publish after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
