package domain

import "time"

// Review is a customer review attached to a product document.
type Review struct {
	ID        string    `json:"id" firestore:"-"`
	ProductID string    `json:"product_id" firestore:"productId"`
	UserName  string    `json:"user_name" firestore:"userName"`
	UserImage string    `json:"user_image,omitempty" firestore:"userImage"`
	Rating    float64   `json:"rating" firestore:"rating"`
	Comment   string    `json:"comment" firestore:"comment"`
	Date      time.Time `json:"date" firestore:"date"`
}
