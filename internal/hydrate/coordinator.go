package hydrate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tausif1337/remart/internal/auth"
	"github.com/tausif1337/remart/internal/domain"
	"github.com/tausif1337/remart/internal/storage"
	"github.com/tausif1337/remart/internal/store"
)

// Coordinator runs the one-time startup hydration: it loads both persisted
// snapshots concurrently, applies them to the stores in immediate succession,
// then waits for the auth observer's first resolution before declaring the
// engine ready. Two states, Hydrating then Ready, with no way back.
type Coordinator struct {
	cart     *store.CartStore
	wishlist *store.WishlistStore

	cartSnapshots     *storage.SnapshotStore[domain.CartItem]
	wishlistSnapshots *storage.SnapshotStore[domain.Product]

	observer *auth.Observer
	logger   *slog.Logger

	ready chan struct{}
	once  sync.Once
}

// NewCoordinator wires the coordinator to the stores it hydrates.
func NewCoordinator(
	cart *store.CartStore,
	wishlist *store.WishlistStore,
	cartSnapshots *storage.SnapshotStore[domain.CartItem],
	wishlistSnapshots *storage.SnapshotStore[domain.Product],
	observer *auth.Observer,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		cart:              cart,
		wishlist:          wishlist,
		cartSnapshots:     cartSnapshots,
		wishlistSnapshots: wishlistSnapshots,
		observer:          observer,
		logger:            logger,
		ready:             make(chan struct{}),
	}
}

// Run performs hydration. It cannot fail: snapshot loads degrade to empty
// lists, and a missing or corrupt snapshot means a fresh start. There is no
// retry logic because there is nothing to retry. Only the first call has
// effect; Run blocks until Ready or ctx is done.
func (c *Coordinator) Run(ctx context.Context) {
	c.once.Do(func() {
		start := time.Now()

		var cartItems []domain.CartItem
		var wishlistItems []domain.Product

		// Both loads run concurrently; neither returns an error.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			cartItems = c.cartSnapshots.Load(gctx, storage.NamespaceCart)
			return nil
		})
		g.Go(func() error {
			wishlistItems = c.wishlistSnapshots.Load(gctx, storage.NamespaceWishlist)
			return nil
		})
		_ = g.Wait()

		// Apply both snapshots in immediate succession.
		c.cart.Hydrate(cartItems)
		c.wishlist.Hydrate(wishlistItems)

		// Auth resolution gates readiness alongside hydration.
		select {
		case <-c.observer.Resolved():
		case <-ctx.Done():
			c.logger.Warn("hydration interrupted before auth resolution")
			return
		}

		c.logger.Info("hydration complete",
			slog.Int("cart_items", len(cartItems)),
			slog.Int("wishlist_items", len(wishlistItems)),
			slog.Duration("duration", time.Since(start)),
		)
		close(c.ready)
	})
}

// Ready returns a channel closed once hydration and auth resolution are both
// complete.
func (c *Coordinator) Ready() <-chan struct{} {
	return c.ready
}

// IsReady reports whether the coordinator has reached the Ready state.
func (c *Coordinator) IsReady() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// Wait blocks until Ready or until ctx is done, returning ctx's error in the
// latter case.
func (c *Coordinator) Wait(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
