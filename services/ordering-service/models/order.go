package models

import "encoding/json"

// OrderItem is the denormalized item copy carried over from the basket.
type OrderItem struct {
	ProductID   string  `json:"productId" dynamodbav:"productId"`
	ProductName string  `json:"productName,omitempty" dynamodbav:"productName,omitempty"`
	Price       float64 `json:"price" dynamodbav:"price"`
	Quantity    int     `json:"quantity" dynamodbav:"quantity"`
	Color       string  `json:"color,omitempty" dynamodbav:"color,omitempty"`
}

// Order is the persisted record. The composite key (username, orderDate)
// keeps a user's orders time-ordered and individually addressable. Orders are
// immutable once written; this service never updates or deletes them.
type Order struct {
	Username   string      `json:"username" dynamodbav:"username"`
	OrderDate  string      `json:"orderDate" dynamodbav:"orderDate"`
	CheckoutID string      `json:"checkoutId,omitempty" dynamodbav:"checkoutId,omitempty"`
	TotalPrice float64     `json:"totalPrice" dynamodbav:"totalPrice"`
	Items      []OrderItem `json:"items" dynamodbav:"items"`

	FirstName     string `json:"firstName,omitempty" dynamodbav:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty" dynamodbav:"lastName,omitempty"`
	Email         string `json:"email,omitempty" dynamodbav:"email,omitempty"`
	Address       string `json:"address,omitempty" dynamodbav:"address,omitempty"`
	CardInfo      string `json:"cardInfo,omitempty" dynamodbav:"cardInfo,omitempty"`
	PaymentMethod int    `json:"paymentMethod,omitempty" dynamodbav:"paymentMethod,omitempty"`
}

// CheckoutEvent is the wire payload published by the basket service. The
// checkoutId is the idempotency token: every redelivery of the same logical
// checkout carries the same id. orderDate is deliberately absent here; the
// producer does not know the final order identity.
type CheckoutEvent struct {
	CheckoutID string      `json:"checkoutId"`
	Username   string      `json:"username"`
	TotalPrice float64     `json:"totalPrice"`
	Items      []OrderItem `json:"items"`

	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	CardInfo      string `json:"cardInfo,omitempty"`
	PaymentMethod int    `json:"paymentMethod,omitempty"`
}

// BusEnvelope is the EventBridge event shape as delivered to the queue:
// the checkout payload sits under "detail" next to the routing metadata.
type BusEnvelope struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detail-type"`
	Detail     json.RawMessage `json:"detail"`
}
