package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups dishes on the menu (e.g. main, hot, drinks, dessert).
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
