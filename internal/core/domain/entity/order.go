package entity

import "time"

// OrderStatus values. Only pending is ever written today; the field exists
// so the schema does not need another migration when fulfilment states land.
const (
	OrderStatusPending = "pending"
)

// OrderItem is a cart line: the product as it was displayed at checkout time
// plus the quantity. Embedding Product keeps the JSON shape flat, which is
// what the storefront sends and what gets stored in the items column.
type OrderItem struct {
	Product
	Quantity int `json:"quantity"`
}

type Order struct {
	ID            int64       `json:"id"`
	CustomerName  string      `json:"customer_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	Total         float64     `json:"total"`
	Items         []OrderItem `json:"items"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}
