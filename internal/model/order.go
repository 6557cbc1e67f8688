package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCooking   OrderStatus = "cooking"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCooking, OrderReady, OrderCompleted, OrderCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle transition is permitted
// (deletion excepted).
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCanceled
}

// OrderEvent is a lifecycle trigger applied to an order.
type OrderEvent string

const (
	EventStart     OrderEvent = "start"      // kitchen acknowledged
	EventMarkReady OrderEvent = "mark_ready" // kitchen finished
	EventComplete  OrderEvent = "complete"   // waiter closed out / paid
	EventCancel    OrderEvent = "cancel"
)

func (e OrderEvent) Valid() bool {
	switch e {
	case EventStart, EventMarkReady, EventComplete, EventCancel:
		return true
	}
	return false
}

// transitions maps (current status, event) → next status.
// Requests outside this table are rejected without mutating anything.
var transitions = map[OrderStatus]map[OrderEvent]OrderStatus{
	OrderPending: {
		EventStart:  OrderCooking,
		EventCancel: OrderCanceled,
	},
	OrderCooking: {
		EventMarkReady: OrderReady,
		EventCancel:    OrderCanceled,
	},
	OrderReady: {
		EventComplete: OrderCompleted,
	},
}

// Next returns the status that event leads to from s, and whether the
// transition is allowed at all.
func (s OrderStatus) Next(event OrderEvent) (OrderStatus, bool) {
	next, ok := transitions[s][event]
	return next, ok
}

// Order is owned exclusively by the order store. TotalAmount is derived:
// it equals Σ(item.UnitPrice × item.Quantity) at every observable point.
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	WaiterID    *uuid.UUID      `gorm:"type:uuid;index"`
	ChefID      *uuid.UUID      `gorm:"type:uuid;index"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time

	// Seq is a monotonic insertion index (bigserial in postgres); listings
	// use it to break created-at ties deterministically.
	Seq int64 `gorm:"autoIncrement;uniqueIndex"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem is one line of an order. UnitPrice is snapshotted from the
// dish at the moment the item is added; later menu edits do not change it.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	DishID    uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"not null;default:1"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// ComputeTotal recomputes TotalAmount and per-item subtotals from the items.
func (o *Order) ComputeTotal() {
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].Subtotal = o.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(o.Items[i].Quantity)))
		total = total.Add(o.Items[i].Subtotal)
	}
	o.TotalAmount = total
}
