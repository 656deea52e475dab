package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tausif1337/remart/internal/domain"
	apperrors "github.com/tausif1337/remart/pkg/errors"
)

const collOrders = "orders"

// OrderRepository is the Firestore-backed order history.
type OrderRepository struct {
	client *firestore.Client
}

// NewOrderRepository creates an order repository over the given client.
func NewOrderRepository(client *firestore.Client) *OrderRepository {
	return &OrderRepository{client: client}
}

// Save stores a new order document with a server-assigned ID. Orders enter
// the history as processing.
func (r *OrderRepository) Save(ctx context.Context, order domain.Order) (*domain.Order, error) {
	ref := r.client.Collection(collOrders).NewDoc()
	order.ID = ref.ID
	if order.Status == "" {
		order.Status = domain.OrderStatusProcessing
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	if _, err := ref.Set(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	iter := r.client.Collection(collOrders).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var orders []domain.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate orders: %w", err)
		}

		var o domain.Order
		if err := doc.DataTo(&o); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", doc.Ref.ID, err)
		}
		o.ID = doc.Ref.ID
		orders = append(orders, o)
	}

	return orders, nil
}

// Cancel transitions the order to cancelled after verifying ownership and
// that the order is still cancellable.
func (r *OrderRepository) Cancel(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	ref := r.client.Collection(collOrders).Doc(orderID)

	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperrors.NotFound("order", orderID)
		}
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}

	var order domain.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	order.ID = doc.Ref.ID

	if order.UserID != userID {
		return nil, apperrors.Forbidden("order belongs to another user")
	}
	if !order.Cancellable() {
		return nil, apperrors.InvalidInput("order is not cancellable")
	}

	now := time.Now().UTC()
	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: domain.OrderStatusCancelled},
		{Path: "cancelledAt", Value: now},
	})
	if err != nil {
		return nil, fmt.Errorf("cancel order %s: %w", orderID, err)
	}

	order.Status = domain.OrderStatusCancelled
	order.CancelledAt = &now
	return &order, nil
}
