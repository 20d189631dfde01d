package models

// CheckoutRequest is the ephemeral checkout input. Username is the only
// required field; the rest is shipping/payment data carried through to the
// order untouched.
type CheckoutRequest struct {
	Username      string `json:"username"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	CardInfo      string `json:"cardInfo,omitempty"`
	PaymentMethod int    `json:"paymentMethod,omitempty"`
}

// OrderPayload is the message placed on the event bus at checkout. It is the
// union of the checkout request and the basket, plus the computed total and
// a checkout id the ordering service uses to collapse duplicate deliveries.
// It is never persisted directly.
type OrderPayload struct {
	CheckoutID string  `json:"checkoutId"`
	Username   string  `json:"username"`
	TotalPrice float64 `json:"totalPrice"`

	Items []BasketItem `json:"items"`

	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	CardInfo      string `json:"cardInfo,omitempty"`
	PaymentMethod int    `json:"paymentMethod,omitempty"`
}
