package repository

import (
	"context"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepository interface {
	Create(ctx context.Context, t *model.Table) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Table, error)
	FindByNumber(ctx context.Context, number int) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	ListFree(ctx context.Context) ([]model.Table, error)
	Update(ctx context.Context, t *model.Table) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Bind/unbind maintain the table→order back-reference. They are invoked
	// only by the order service inside its lifecycle transactions, never by
	// handlers. tx may be nil outside a transaction (in-memory mode, tests).
	BindTx(tx *gorm.DB, tableID, orderID uuid.UUID) error
	UnbindTx(tx *gorm.DB, tableID uuid.UUID) error
}

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) Create(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tableRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *tableRepo) FindByNumber(ctx context.Context, number int) (*model.Table, error) {
	var t model.Table
	err := r.db.WithContext(ctx).Where("table_number = ?", number).First(&t).Error
	return &t, err
}

func (r *tableRepo) List(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).Order("table_number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) ListFree(ctx context.Context) ([]model.Table, error) {
	var tables []model.Table
	err := r.db.WithContext(ctx).Where("status = ?", model.TableFree).Order("table_number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) Update(ctx context.Context, t *model.Table) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Table{}, "id = ?", id).Error
}

func (r *tableRepo) BindTx(tx *gorm.DB, tableID, orderID uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Table{}).Where("id = ?", tableID).Updates(map[string]interface{}{
		"status":          model.TableOccupied,
		"active_order_id": orderID,
	}).Error
}

func (r *tableRepo) UnbindTx(tx *gorm.DB, tableID uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Table{}).Where("id = ?", tableID).Updates(map[string]interface{}{
		"status":          model.TableFree,
		"active_order_id": nil,
	}).Error
}
