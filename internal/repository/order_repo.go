package repository

import (
	"context"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository owns order records. Tx variants take the transaction the
// order service opened so that order mutation and table bind/unbind commit
// or roll back together. tx may be nil in in-memory mode and unit tests.
type OrderRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)

	// UpdateStatusTx is the compare-and-swap at the heart of the lifecycle:
	// the UPDATE is guarded by the expected current status and reports
	// whether a row actually changed. Zero rows means the order moved
	// concurrently (or never was in `from`) and the caller must reject the
	// transition without side effects.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus, chefID *uuid.UUID) (bool, error)

	AddItemsTx(tx *gorm.DB, orderID uuid.UUID, items []model.OrderItem, newTotal decimal.Decimal) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying handle so the service can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})

	if statuses := filter.StatusSet(); len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if filter.WaiterID != "" {
		q = q.Where("waiter_id = ?", filter.WaiterID)
	}
	if filter.TableID != "" {
		q = q.Where("table_id = ?", filter.TableID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Most recent first; the insertion sequence breaks created-at ties for
	// orders created in the same instant.
	offset := (filter.Page - 1) * filter.Limit
	var orders []model.Order
	err := q.Preload("Items").
		Order("created_at DESC, seq DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to model.OrderStatus, chefID *uuid.UUID) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	updates := map[string]interface{}{"status": to}
	if chefID != nil {
		updates["chef_id"] = *chefID
	}
	res := tx.Model(&model.Order{}).Where("id = ? AND status = ?", id, from).Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepo) AddItemsTx(tx *gorm.DB, orderID uuid.UUID, items []model.OrderItem, newTotal decimal.Decimal) error {
	if tx == nil {
		tx = r.db
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	return tx.Model(&model.Order{}).Where("id = ?", orderID).Update("total_amount", newTotal).Error
}

func (r *orderRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Delete(&model.OrderItem{}, "order_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Order{}, "id = ?", id).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
