package entity

import "time"

// Default status for freshly created orders.
const StatusPending = "Pending"

// Order ("pedido") belongs to exactly one user; ownership is permanent.
type Order struct {
	ID        int64
	UserID    int64
	Client    string
	Product   string
	Quantity  int
	Status    string
	CreatedAt time.Time
}

// DashboardStats aggregates a single user's orders for the dashboard view.
type DashboardStats struct {
	TotalOrders int64            `json:"total_orders"`
	PerMonth    []MonthCount     `json:"per_month"`
	PerProduct  map[string]int64 `json:"per_product"`
	PerClient   map[string]int64 `json:"per_client"`
}

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}
