package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tausif1337/remart/internal/domain"
	"github.com/tausif1337/remart/internal/event"
	"github.com/tausif1337/remart/internal/storage"
)

// WishlistStore owns the canonical in-memory wishlist: a set of full product
// snapshots keyed by product ID, represented as a list in insertion order.
type WishlistStore struct {
	mu       sync.Mutex
	items    []domain.Product
	hydrated bool

	snapshots *storage.SnapshotStore[domain.Product]
	bus       *event.Bus
	logger    *slog.Logger

	pending       sync.WaitGroup
	persistMu     sync.Mutex
	persistSeq    uint64
	lastPersisted uint64
}

// NewWishlistStore creates an empty, not-yet-hydrated wishlist store.
func NewWishlistStore(snapshots *storage.SnapshotStore[domain.Product], bus *event.Bus, logger *slog.Logger) *WishlistStore {
	return &WishlistStore{
		snapshots: snapshots,
		bus:       bus,
		logger:    logger,
	}
}

// Hydrate replaces the list with the persisted snapshot and marks the store
// hydrated. No persistence is triggered.
func (s *WishlistStore) Hydrate(items []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]domain.Product(nil), items...)
	s.hydrated = true
	s.logger.Info("wishlist hydrated", slog.Int("items", len(s.items)))
}

// Add appends the product unless an entry with the same ID already exists.
// A duplicate add is idempotent, not an error.
func (s *WishlistStore) Add(product domain.Product) {
	s.mu.Lock()
	if s.contains(product.ID) {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items, product)
	s.mu.Unlock()

	storeMutations.WithLabelValues("wishlist", "add").Inc()
	s.afterMutation()
}

// Remove filters out the entry with the given product ID. Empty or unknown
// IDs are logged no-ops.
func (s *WishlistStore) Remove(productID string) {
	if productID == "" {
		s.logger.Warn("wishlist remove rejected, empty product id")
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

	storeMutations.WithLabelValues("wishlist", "remove").Inc()
	s.afterMutation()
}

// Toggle removes the product if present, adds it if absent. This is the
// primary operation behind the single heart affordance. Returns whether the
// product is wishlisted after the toggle.
func (s *WishlistStore) Toggle(product domain.Product) bool {
	s.mu.Lock()
	var wishlisted bool
	if i := s.indexOf(product.ID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		wishlisted = false
	} else {
		s.items = append(s.items, product)
		wishlisted = true
	}
	s.mu.Unlock()

	storeMutations.WithLabelValues("wishlist", "toggle").Inc()
	s.afterMutation()
	return wishlisted
}

// Clear empties the wishlist and persists the empty snapshot.
func (s *WishlistStore) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	storeMutations.WithLabelValues("wishlist", "clear").Inc()
	s.afterMutation()
}

// IsWishlisted reports membership by product ID.
func (s *WishlistStore) IsWishlisted(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contains(productID)
}

// Items returns a copy of the current entries in insertion order.
func (s *WishlistStore) Items() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Product(nil), s.items...)
}

// Count returns the number of wishlisted products.
func (s *WishlistStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Hydrated reports whether the startup snapshot has been applied.
func (s *WishlistStore) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Flush blocks until all detached persistence writes issued so far have
// completed.
func (s *WishlistStore) Flush() {
	s.pending.Wait()
}

func (s *WishlistStore) contains(productID string) bool {
	return s.indexOf(productID) >= 0
}

func (s *WishlistStore) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *WishlistStore) afterMutation() {
	s.mu.Lock()
	items := append([]domain.Product(nil), s.items...)
	s.persistSeq++
	seq := s.persistSeq
	s.mu.Unlock()

	s.bus.Publish(event.TopicWishlistUpdated, event.WishlistUpdatedData{
		Items: items,
		Count: len(items),
	})

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
		s.snapshots.Save(ctx, storage.NamespaceWishlist, items)
	}()
}
