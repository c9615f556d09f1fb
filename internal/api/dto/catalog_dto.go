package dto

import "time"

// ProductRequest creates or updates a product.
type ProductRequest struct {
	Name  string  `json:"name" form:"name"`
	Price float64 `json:"price" form:"price"`
	Stock int     `json:"stock" form:"stock"`
}

// OrderRequest creates or updates an order.
type OrderRequest struct {
	UserID    int64  `json:"user_id" form:"user_id"`
	ProductID int64  `json:"product_id" form:"product_id"`
	Quantity  int    `json:"quantity" form:"quantity"`
	Status    string `json:"status" form:"status"`
}

// PaymentRequest creates or updates a payment. A zero timestamp means now.
type PaymentRequest struct {
	OrderID   int64     `json:"order_id" form:"order_id"`
	Amount    float64   `json:"amount" form:"amount"`
	Status    string    `json:"status" form:"status"`
	Timestamp time.Time `json:"timestamp" form:"timestamp"`
}
