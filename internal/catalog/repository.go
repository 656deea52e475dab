// Package catalog defines the read/write boundary to the remote document
// store holding products, reviews, and orders. The core stores never call
// these repositories directly; handlers fetch documents and feed full
// product payloads into the stores.
package catalog

import (
	"context"

	"github.com/tausif1337/remart/internal/domain"
)

// ProductRepository reads the product catalog.
type ProductRepository interface {
	// List returns all catalog products.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID returns a single product or errors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// ReviewRepository reads and writes product reviews.
type ReviewRepository interface {
	// ListByProduct returns the reviews for a product, newest first.
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)

	// Add stores a new review and returns it with its assigned ID.
	Add(ctx context.Context, review domain.Review) (*domain.Review, error)
}

// OrderRepository records completed checkouts and serves the order history.
type OrderRepository interface {
	// Save stores a new order and returns it with its assigned ID.
	Save(ctx context.Context, order domain.Order) (*domain.Order, error)

	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)

	// Cancel marks the order cancelled. It fails with errors.ErrNotFound if
	// the order does not exist, errors.ErrForbidden if it belongs to another
	// user, and errors.ErrInvalidInput if it is not cancellable.
	Cancel(ctx context.Context, orderID, userID string) (*domain.Order, error)
}
