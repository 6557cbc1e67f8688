package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateDishRequest struct {
	Name               string          `json:"name"                 validate:"required,min=1,max=100"`
	Description        *string         `json:"description"          validate:"omitempty,max=500"`
	Price              decimal.Decimal `json:"price"                validate:"required"`
	CategoryID         string          `json:"category_id"          validate:"required,uuid"`
	CookingTimeMinutes int             `json:"cooking_time_minutes" validate:"omitempty,min=1"`
}

type UpdateDishRequest struct {
	Name               *string          `json:"name"                 validate:"omitempty,min=1,max=100"`
	Description        *string          `json:"description"          validate:"omitempty,max=500"`
	Price              *decimal.Decimal `json:"price"`
	CategoryID         *string          `json:"category_id"          validate:"omitempty,uuid"`
	CookingTimeMinutes *int             `json:"cooking_time_minutes" validate:"omitempty,min=1"`
	Available          *bool            `json:"available"`
}

type DishFilter struct {
	CategoryID string `form:"category_id"`
	Name       string `form:"name"`
	// Available: "false" = unavailable only, "all" = everything, default = available
	Available string `form:"available"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DishResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        *string         `json:"description"`
	Price              decimal.Decimal `json:"price"`
	CategoryID         string          `json:"category_id"`
	CategoryName       string          `json:"category_name,omitempty"`
	CookingTimeMinutes int             `json:"cooking_time_minutes"`
	Available          bool            `json:"available"`
}

// ImportResult summarizes a remote catalog pull.
type ImportResult struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}
