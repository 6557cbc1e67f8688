package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dish is a menu entry. Every dish belongs to exactly one category.
// Price changes never propagate to existing orders — order items carry
// a snapshot of the unit price taken at creation time.
type Dish struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string    `gorm:"index;not null"`
	Description        *string
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CategoryID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	CookingTimeMinutes int             `gorm:"not null;default:15"`
	Available          bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}
