package checkout

import (
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

// Step is a checkout flow state.
type Step string

const (
	StepShipping Step = "shipping"
	StepPayment  Step = "payment"
	StepReview   Step = "review"
	StepPlaced   Step = "placed"
)

// Session is the state of one checkout flow, keyed by the cart session id.
// Card data is never stored beyond the masked descriptor.
type Session struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	Step            Step                   `json:"step"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	InFlight        bool                   `json:"in_flight"`
	OrderID         string                 `json:"order_id,omitempty"`
}

// PaymentDetails is the raw card form input. It is validated, reduced to a
// masked descriptor, and discarded.
type PaymentDetails struct {
	CardNumber string `json:"card_number"`
	CardName   string `json:"card_name"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}
