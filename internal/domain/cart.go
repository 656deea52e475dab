package domain

// CartItem is a full product snapshot plus a quantity. The persisted snapshot
// format is the product fields with "quantity" alongside, so Product is
// embedded rather than referenced by ID.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity for this line item.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotal sums price × quantity over all items.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// CartItemCount sums the quantities of all items.
func CartItemCount(items []CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
