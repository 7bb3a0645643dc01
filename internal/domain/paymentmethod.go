package domain

import "context"

// PaymentMethod is a reference value chosen per registration, never owned
// by it. The table is seeded, not managed through the API.
// swagger:model PaymentMethod
type PaymentMethod struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PaymentMethodRepository defines lookup operations for payment methods.
type PaymentMethodRepository interface {
	GetByID(ctx context.Context, id int) (*PaymentMethod, error)
	List(ctx context.Context) ([]*PaymentMethod, error)
}
