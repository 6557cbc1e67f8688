package dto

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	DishID   string `json:"dish_id"  validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	TableID string             `json:"table_id" validate:"required,uuid"`
	Items   []OrderItemRequest `json:"items"    validate:"required,min=1,dive"`
}

type AddItemsRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type TransitionRequest struct {
	Event string `json:"event" validate:"required,oneof=start mark_ready complete cancel"`
}

// OrderFilter is bound from the query string of GET /api/orders.
type OrderFilter struct {
	// Status: comma-separated status set, e.g. "pending,cooking"; empty = all
	Status   string `form:"status"`
	WaiterID string `form:"waiter_id" validate:"omitempty,uuid"`
	TableID  string `form:"table_id"  validate:"omitempty,uuid"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// StatusSet splits the comma-separated Status filter into its parts.
func (f OrderFilter) StatusSet() []string {
	if f.Status == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(f.Status, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	DishID    string          `json:"dish_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	TableID     string              `json:"table_id"`
	WaiterID    *string             `json:"waiter_id"`
	ChefID      *string             `json:"chef_id"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	CreatedAt   string              `json:"created_at"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
