package models

// BasketItem is a denormalized copy of a product at the moment it was added.
// Later product edits never reach an existing basket.
type BasketItem struct {
	ProductID   string  `json:"productId" dynamodbav:"productId"`
	ProductName string  `json:"productName,omitempty" dynamodbav:"productName,omitempty"`
	Price       float64 `json:"price" dynamodbav:"price"`
	Quantity    int     `json:"quantity" dynamodbav:"quantity"`
	Color       string  `json:"color,omitempty" dynamodbav:"color,omitempty"`
}

// Basket holds one user's pending items; username is the table's primary key.
// While the basket exists its items are the sole source of truth for
// checkout pricing.
type Basket struct {
	Username string       `json:"username" dynamodbav:"username"`
	Items    []BasketItem `json:"items" dynamodbav:"items"`
}

// TotalPrice sums item prices in slice order. Quantity is deliberately not
// factored in; that matches the pricing contract consumers already depend on.
func (b Basket) TotalPrice() float64 {
	var total float64
	for _, item := range b.Items {
		total += item.Price
	}
	return total
}
