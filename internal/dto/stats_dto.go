package dto

import "github.com/shopspring/decimal"

// UserStatsResponse is returned by GET /api/users/:id/stats. Exactly one
// of Waiter / Cook is set, depending on the user's role.
type UserStatsResponse struct {
	UserID string            `json:"user_id"`
	Role   string            `json:"role"`
	Waiter *WaiterStatsBlock `json:"waiter,omitempty"`
	Cook   *CookStatsBlock   `json:"cook,omitempty"`
}

type WaiterStatsBlock struct {
	OrdersServed   int             `json:"orders_served"`
	OrdersCanceled int             `json:"orders_canceled"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

type CookStatsBlock struct {
	ActiveOrders       int     `json:"active_orders"`
	CompletedOrders    int     `json:"completed_orders"`
	AvgCookingTimeMins float64 `json:"avg_cooking_time_minutes"`
}
