package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the read-only view of an order consumed at plan-creation time.
// Order management itself lives outside this service.
type Order struct {
	ID          int64           `json:"id"`
	CustomerID  int64           `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ProductRef  string          `json:"product_ref"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
