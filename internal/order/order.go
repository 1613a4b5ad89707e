package order

import "time"

type Status string

const (
	// StatusPending is the status every order is created with.
	StatusPending Status = "pending"
	// StatusFailed marks an order whose item writes did not complete; the
	// row is kept for reconciliation instead of being deleted.
	StatusFailed Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

type Order struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Status    Status    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
	Items     []Item    `json:"items,omitempty"`
}

// Item is one order line. Price is the unit price captured at checkout
// time, not re-derived from the catalog later. ProductName and
// ProductImage are joined in on reads for the confirmation view.
type Item struct {
	ID           int64   `json:"id,omitempty"`
	OrderID      int64   `json:"order_id"`
	ProductID    int64   `json:"product_id"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	ProductName  string  `json:"product_name,omitempty"`
	ProductImage string  `json:"product_image,omitempty"`
}
