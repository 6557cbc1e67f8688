package model

import (
	"time"

	"github.com/google/uuid"
)

// TableStatus is the closed set of table states.
type TableStatus string

const (
	TableFree     TableStatus = "free"
	TableOccupied TableStatus = "occupied"
	TableReserved TableStatus = "reserved"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableOccupied, TableReserved:
		return true
	}
	return false
}

// Table is a dining table. ActiveOrderID is a non-owning back-reference:
// it is set exactly while the referenced order is in a non-terminal state,
// and cleared by the order service when the order completes, is canceled,
// or is deleted. The table never drives the order lifecycle.
type Table struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableNumber   int       `gorm:"uniqueIndex;not null"`
	Capacity      int       `gorm:"not null;default:2"`
	Location      *string
	Status        TableStatus `gorm:"type:varchar(20);not null;default:'free'"`
	ActiveOrderID *uuid.UUID  `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
