// Package firestore implements the catalog repositories over Cloud
// Firestore. Collection names match the existing storefront documents.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tausif1337/remart/internal/domain"
	apperrors "github.com/tausif1337/remart/pkg/errors"
)

const collProducts = "products"

// ProductRepository is the Firestore-backed product catalog.
type ProductRepository struct {
	client *firestore.Client
}

// NewProductRepository creates a product repository over the given client.
func NewProductRepository(client *firestore.Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// List returns every product document in the catalog.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	iter := r.client.Collection(collProducts).Documents(ctx)
	defer iter.Stop()

	var products []domain.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate products: %w", err)
		}

		var p domain.Product
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID
		products = append(products, p)
	}

	return products, nil
}

// GetByID fetches a single product document.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	doc, err := r.client.Collection(collProducts).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}

	var p domain.Product
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	p.ID = doc.Ref.ID
	return &p, nil
}
