package models

// Product is the catalog record referenced by basket items. The id is a
// service-generated uuid; clients never supply it on create.
type Product struct {
	ID          string  `json:"id" dynamodbav:"id"`
	Name        string  `json:"name" dynamodbav:"name"`
	Description string  `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Price       float64 `json:"price" dynamodbav:"price"`
	Category    string  `json:"category,omitempty" dynamodbav:"category,omitempty"`
	ImageFile   string  `json:"imageFile,omitempty" dynamodbav:"imageFile,omitempty"`
}
