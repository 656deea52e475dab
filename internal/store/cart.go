package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tausif1337/remart/internal/domain"
	"github.com/tausif1337/remart/internal/event"
	"github.com/tausif1337/remart/internal/storage"
)

// persistTimeout bounds a single detached snapshot write. A hung write never
// blocks mutations; in-memory state has already been applied.
const persistTimeout = 5 * time.Second

// CartStore owns the canonical in-memory cart. All reads and writes go
// through its method set; mutations are synchronous and followed by a
// detached best-effort snapshot write.
type CartStore struct {
	mu       sync.Mutex
	items    []domain.CartItem
	hydrated bool

	snapshots *storage.SnapshotStore[domain.CartItem]
	bus       *event.Bus
	logger    *slog.Logger

	pending       sync.WaitGroup
	persistMu     sync.Mutex
	persistSeq    uint64
	lastPersisted uint64
}

// NewCartStore creates an empty, not-yet-hydrated cart store.
func NewCartStore(snapshots *storage.SnapshotStore[domain.CartItem], bus *event.Bus, logger *slog.Logger) *CartStore {
	return &CartStore{
		snapshots: snapshots,
		bus:       bus,
		logger:    logger,
	}
}

// Hydrate replaces the entire item list with the persisted snapshot and marks
// the store hydrated. Called exactly once at startup; does not persist (the
// data just came from persistence).
func (s *CartStore) Hydrate(items []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]domain.CartItem(nil), items...)
	s.hydrated = true
	s.logger.Info("cart hydrated", slog.Int("items", len(s.items)))
}

// Add merges quantity into an existing line item for the same product ID, or
// appends a new one. Quantity below 1 is rejected as a logged no-op. No upper
// bound is enforced here; inventory limits are the caller's concern.
func (s *CartStore) Add(product domain.Product, quantity int) {
	if quantity < 1 {
		s.logger.Warn("cart add rejected, quantity below 1",
			slog.String("product_id", product.ID),
			slog.Int("quantity", quantity),
		)
		return
	}

	s.mu.Lock()
	if i := s.findIndex(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.CartItem{Product: product, Quantity: quantity})
	}
	s.mu.Unlock()

	storeMutations.WithLabelValues("cart", "add").Inc()
	s.afterMutation()
}

// Remove deletes the line item with the given product ID. An empty ID or an
// unknown ID is a no-op; removal of something already absent is not an error.
func (s *CartStore) Remove(productID string) {
	if productID == "" {
		s.logger.Warn("cart remove rejected, empty product id")
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	storeMutations.WithLabelValues("cart", "remove").Inc()
	s.afterMutation()
}

// UpdateQuantity sets the quantity of an existing line item. A quantity of
// zero or less is routed to removal so a persisted quantity is never below 1.
// Unknown product IDs are a no-op.
func (s *CartStore) UpdateQuantity(productID string, quantity int) {
	if productID == "" {
		s.logger.Warn("cart update rejected, empty product id")
		return
	}
	if quantity <= 0 {
		s.Remove(productID)
		return
	}

	s.mu.Lock()
	i := s.findIndex(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items[i].Quantity = quantity
	s.mu.Unlock()

	storeMutations.WithLabelValues("cart", "update_quantity").Inc()
	s.afterMutation()
}

// Clear empties the cart and persists the empty snapshot. Called by the user
// and by checkout after a successful payment.
func (s *CartStore) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	storeMutations.WithLabelValues("cart", "clear").Inc()
	s.bus.Publish(event.TopicCartCleared, nil)
	s.persistDetached()
}

// Items returns a copy of the current line items in insertion order.
func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.items...)
}

// ItemCount returns the sum of all line item quantities.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartItemCount(s.items)
}

// Total returns the sum of price × quantity over all line items.
func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartTotal(s.items)
}

// Hydrated reports whether the startup snapshot has been applied.
func (s *CartStore) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Flush blocks until all detached persistence writes issued so far have
// completed. Called on shutdown so the last snapshot is not lost.
func (s *CartStore) Flush() {
	s.pending.Wait()
}

// findIndex returns the index of the item with the given product ID, or -1.
// Caller must hold the mutex.
func (s *CartStore) findIndex(productID string) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *CartStore) afterMutation() {
	items := s.Items()
	s.bus.Publish(event.TopicCartUpdated, event.CartUpdatedData{
		Items:     items,
		ItemCount: domain.CartItemCount(items),
		Total:     domain.CartTotal(items),
	})
	s.persistDetached()
}

// persistDetached snapshots the current item list in a background goroutine.
// The mutation the caller observes is already applied; persistence is
// best-effort and never rolls back in-memory state. Writes carry a sequence
// number so a slow older write cannot clobber a newer snapshot.
func (s *CartStore) persistDetached() {
	s.mu.Lock()
	items := append([]domain.CartItem(nil), s.items...)
	s.persistSeq++
	seq := s.persistSeq
	s.mu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if seq <= s.lastPersisted {
			return
		}
		s.lastPersisted = seq

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		s.snapshots.Save(ctx, storage.NamespaceCart, items)
	}()
}
