package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{Product: Product{ID: "p1", Price: 199.99}, Quantity: 2},
		{Product: Product{ID: "p2", Price: 89.99}, Quantity: 1},
	}

	assert.InDelta(t, 489.97, CartTotal(items), 0.001)
}

func TestCartTotalEmpty(t *testing.T) {
	assert.Zero(t, CartTotal(nil))
}

func TestCartItemCount(t *testing.T) {
	items := []CartItem{
		{Product: Product{ID: "p1"}, Quantity: 3},
		{Product: Product{ID: "p2"}, Quantity: 1},
	}

	assert.Equal(t, 4, CartItemCount(items))
}

func TestCartItemSubtotal(t *testing.T) {
	item := CartItem{Product: Product{ID: "p1", Price: 25.50}, Quantity: 4}
	assert.InDelta(t, 102.0, item.Subtotal(), 0.001)
}

func TestOrderCancellable(t *testing.T) {
	order := &Order{Status: OrderStatusProcessing}
	assert.True(t, order.Cancellable())

	order.Status = OrderStatusCancelled
	assert.False(t, order.Cancellable())
}

func TestProductInStock(t *testing.T) {
	p := &Product{Stock: 5}
	assert.True(t, p.InStock())

	p.Stock = 0
	assert.False(t, p.InStock())
}

func TestCustomerInfoFullName(t *testing.T) {
	c := CustomerInfo{FirstName: "Tausif", LastName: "Rahman"}
	assert.Equal(t, "Tausif Rahman", c.FullName())
}
