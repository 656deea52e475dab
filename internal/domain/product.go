package domain

// Product is a read-only projection of a catalog document. The client never
// mutates catalog fields; it only snapshots products into the cart and
// wishlist.
type Product struct {
	ID             string          `json:"id" firestore:"-"`
	Name           string          `json:"name" firestore:"name"`
	Price          float64         `json:"price" firestore:"price"`
	Category       string          `json:"category" firestore:"category"`
	Image          string          `json:"image" firestore:"image"`
	Rating         float64         `json:"rating" firestore:"rating"`
	Description    string          `json:"description" firestore:"description"`
	Specifications []Specification `json:"specifications,omitempty" firestore:"specifications"`
	Stock          int             `json:"stock" firestore:"stock"`
}

// Specification is a single label/value pair on a product detail page.
// Order is preserved as stored in the catalog.
type Specification struct {
	Label string `json:"label" firestore:"label"`
	Value string `json:"value" firestore:"value"`
}

// InStock reports whether the product has remaining inventory.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
