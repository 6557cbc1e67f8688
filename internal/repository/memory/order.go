package memory

import (
	"context"
	"sort"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepo struct{ s *Store }

func NewOrderRepository(s *Store) repository.OrderRepository { return &OrderRepo{s: s} }

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) CreateTx(_ context.Context, _ *gorm.DB, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.UpdatedAt = o.CreatedAt
	r.s.orderSeq++
	o.Seq = r.s.orderSeq
	r.s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	statuses := filter.StatusSet()
	matches := func(o *model.Order) bool {
		if len(statuses) > 0 {
			ok := false
			for _, s := range statuses {
				if string(o.Status) == s {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		if filter.WaiterID != "" && (o.WaiterID == nil || o.WaiterID.String() != filter.WaiterID) {
			return false
		}
		if filter.TableID != "" && o.TableID.String() != filter.TableID {
			return false
		}
		return true
	}

	var all []*model.Order
	for _, o := range r.s.orders {
		if matches(o) {
			all = append(all, o)
		}
	}

	// Most recent first; the insertion sequence breaks created-at ties.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Seq > all[j].Seq
	})

	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > len(all) {
		end = len(all)
	}

	out := make([]model.Order, 0, end-start)
	for _, o := range all[start:end] {
		out = append(out, *cloneOrder(o))
	}
	return out, total, nil
}

func (r *OrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to model.OrderStatus, chefID *uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	if chefID != nil {
		id := *chefID
		o.ChefID = &id
	}
	o.UpdatedAt = time.Now()
	return true, nil
}

func (r *OrderRepo) AddItemsTx(_ *gorm.DB, orderID uuid.UUID, items []model.OrderItem, newTotal decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].OrderID = orderID
		o.Items = append(o.Items, items[i])
	}
	o.TotalAmount = newTotal
	o.UpdatedAt = time.Now()
	return nil
}

func (r *OrderRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

func (r *OrderRepo) DB() *gorm.DB { return nil }
