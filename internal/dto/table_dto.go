package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateTableRequest struct {
	TableNumber int     `json:"table_number" validate:"required,min=1"`
	Capacity    int     `json:"capacity"     validate:"omitempty,min=1,max=50"`
	Location    *string `json:"location"     validate:"omitempty,max=100"`
}

// UpdateTableRequest edits table metadata only. Status is owned by the
// order lifecycle and cannot be set through the API.
type UpdateTableRequest struct {
	TableNumber *int    `json:"table_number" validate:"omitempty,min=1"`
	Capacity    *int    `json:"capacity"     validate:"omitempty,min=1,max=50"`
	Location    *string `json:"location"     validate:"omitempty,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TableResponse struct {
	ID            string  `json:"id"`
	TableNumber   int     `json:"table_number"`
	Capacity      int     `json:"capacity"`
	Location      *string `json:"location"`
	Status        string  `json:"status"`
	ActiveOrderID *string `json:"active_order_id"`
}
