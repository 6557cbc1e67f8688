package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WaiterStats accumulates per-waiter service figures. Maintained by the
// stats worker from lifecycle events, never written by request handlers.
type WaiterStats struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WaiterID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	OrdersServed    int       `gorm:"not null;default:0"`
	OrdersCanceled  int       `gorm:"not null;default:0"`
	TotalRevenue    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LastUpdated     time.Time
}

// CookStats accumulates per-chef kitchen figures.
type CookStats struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CookID             uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ActiveOrders       int       `gorm:"not null;default:0"`
	CompletedOrders    int       `gorm:"not null;default:0"`
	AvgCookingTimeMins float64   `gorm:"not null;default:0"`
	LastUpdated        time.Time
}
