package domain

import "time"

// Order status values. An order is created as Processing once payment
// succeeds and may only transition to Cancelled.
const (
	OrderStatusProcessing = "processing"
	OrderStatusCancelled  = "cancelled"
)

// Order is a completed checkout recorded in the order history.
type Order struct {
	ID            string       `json:"id" firestore:"-"`
	UserID        string       `json:"user_id" firestore:"userId"`
	Items         []CartItem   `json:"items" firestore:"items"`
	TotalAmount   float64      `json:"total_amount" firestore:"totalAmount"`
	Status        string       `json:"status" firestore:"status"`
	CustomerInfo  CustomerInfo `json:"customer_info" firestore:"customerInfo"`
	TransactionID string       `json:"transaction_id" firestore:"transactionId"`
	CreatedAt     time.Time    `json:"created_at" firestore:"createdAt"`
	CancelledAt   *time.Time   `json:"cancelled_at,omitempty" firestore:"cancelledAt"`
}

// Cancellable reports whether the order may still be cancelled by its owner.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusProcessing
}

// CustomerInfo is the checkout form payload: billing contact and shipping
// address. Validated at the checkout boundary.
type CustomerInfo struct {
	FirstName string `json:"first_name" firestore:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" firestore:"lastName" validate:"required,min=1,max=100"`
	Email     string `json:"email" firestore:"email" validate:"required,email"`
	Phone     string `json:"phone" firestore:"phone" validate:"required,min=6,max=20"`
	Address   string `json:"address" firestore:"address" validate:"required,min=1,max=500"`
	City      string `json:"city" firestore:"city" validate:"required,min=1,max=100"`
	State     string `json:"state" firestore:"state" validate:"required,min=1,max=100"`
	ZipCode   string `json:"zip_code" firestore:"zipCode" validate:"required,min=3,max=12"`
	Country   string `json:"country" firestore:"country" validate:"required,min=2,max=100"`
}

// FullName joins the customer's first and last name.
func (c CustomerInfo) FullName() string {
	return c.FirstName + " " + c.LastName
}
