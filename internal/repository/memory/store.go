// Package memory provides in-memory implementations of the repository
// interfaces. It backs DATA_SOURCE=memory (self-contained demo mode) and
// doubles as the test store. A single mutex serializes all writers, which
// matches the single-logical-writer model of the domain.
package memory

import (
	"sync"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

	"github.com/google/uuid"
)

// Store is the shared state behind all in-memory repositories.
type Store struct {
	mu sync.RWMutex

	users      map[uuid.UUID]*model.User
	categories map[uuid.UUID]*model.Category
	dishes     map[uuid.UUID]*model.Dish
	tables     map[uuid.UUID]*model.Table
	orders     map[uuid.UUID]*model.Order

	waiterStats map[uuid.UUID]*model.WaiterStats
	cookStats   map[uuid.UUID]*model.CookStats

	// orderSeq hands out Order.Seq values, the insertion index that breaks
	// created-at ties deterministically in listings.
	orderSeq int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:       make(map[uuid.UUID]*model.User),
		categories:  make(map[uuid.UUID]*model.Category),
		dishes:      make(map[uuid.UUID]*model.Dish),
		tables:      make(map[uuid.UUID]*model.Table),
		orders:      make(map[uuid.UUID]*model.Order),
		waiterStats: make(map[uuid.UUID]*model.WaiterStats),
		cookStats:   make(map[uuid.UUID]*model.CookStats),
	}
}

func cloneOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = make([]model.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func cloneTable(t *model.Table) *model.Table {
	cp := *t
	if t.ActiveOrderID != nil {
		id := *t.ActiveOrderID
		cp.ActiveOrderID = &id
	}
	return &cp
}
