package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tausif1337/remart/internal/domain"
)

const collReviews = "reviews"

// ReviewRepository is the Firestore-backed review store.
type ReviewRepository struct {
	client *firestore.Client
}

// NewReviewRepository creates a review repository over the given client.
func NewReviewRepository(client *firestore.Client) *ReviewRepository {
	return &ReviewRepository{client: client}
}

// ListByProduct returns a product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	iter := r.client.Collection(collReviews).
		Where("productId", "==", productID).
		OrderBy("date", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var reviews []domain.Review
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate reviews: %w", err)
		}

		var rev domain.Review
		if err := doc.DataTo(&rev); err != nil {
			return nil, fmt.Errorf("decode review %s: %w", doc.Ref.ID, err)
		}
		rev.ID = doc.Ref.ID
		reviews = append(reviews, rev)
	}

	return reviews, nil
}

// Add stores a new review with a server-assigned ID and timestamp.
func (r *ReviewRepository) Add(ctx context.Context, review domain.Review) (*domain.Review, error) {
	ref := r.client.Collection(collReviews).NewDoc()
	review.ID = ref.ID
	if review.Date.IsZero() {
		review.Date = time.Now().UTC()
	}

	if _, err := ref.Set(ctx, review); err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}
	return &review, nil
}
