package repository

import (
	"context"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatsRepository persists per-waiter and per-chef figures. Written only by
// the stats worker; handlers just read.
type StatsRepository interface {
	FindWaiterStats(ctx context.Context, waiterID uuid.UUID) (*model.WaiterStats, error)
	FindCookStats(ctx context.Context, cookID uuid.UUID) (*model.CookStats, error)
	RecordServed(ctx context.Context, waiterID uuid.UUID, revenue decimal.Decimal) error
	RecordCanceled(ctx context.Context, waiterID uuid.UUID) error
	RecordCookStarted(ctx context.Context, cookID uuid.UUID) error
	RecordCookFinished(ctx context.Context, cookID uuid.UUID, cookingTime time.Duration) error
	// RecordCookAborted releases an active slot when an order is canceled
	// after the kitchen started it.
	RecordCookAborted(ctx context.Context, cookID uuid.UUID) error
}

type statsRepo struct{ db *gorm.DB }

func NewStatsRepository(db *gorm.DB) StatsRepository { return &statsRepo{db: db} }

func (r *statsRepo) FindWaiterStats(ctx context.Context, waiterID uuid.UUID) (*model.WaiterStats, error) {
	var s model.WaiterStats
	err := r.db.WithContext(ctx).Where("waiter_id = ?", waiterID).First(&s).Error
	return &s, err
}

func (r *statsRepo) FindCookStats(ctx context.Context, cookID uuid.UUID) (*model.CookStats, error) {
	var s model.CookStats
	err := r.db.WithContext(ctx).Where("cook_id = ?", cookID).First(&s).Error
	return &s, err
}

// ensureWaiter loads or creates the row for waiterID.
func (r *statsRepo) ensureWaiter(ctx context.Context, waiterID uuid.UUID) (*model.WaiterStats, error) {
	var s model.WaiterStats
	err := r.db.WithContext(ctx).Where(model.WaiterStats{WaiterID: waiterID}).FirstOrCreate(&s).Error
	return &s, err
}

func (r *statsRepo) ensureCook(ctx context.Context, cookID uuid.UUID) (*model.CookStats, error) {
	var s model.CookStats
	err := r.db.WithContext(ctx).Where(model.CookStats{CookID: cookID}).FirstOrCreate(&s).Error
	return &s, err
}

func (r *statsRepo) RecordServed(ctx context.Context, waiterID uuid.UUID, revenue decimal.Decimal) error {
	s, err := r.ensureWaiter(ctx, waiterID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(s).Updates(map[string]interface{}{
		"orders_served": gorm.Expr("orders_served + 1"),
		"total_revenue": gorm.Expr("total_revenue + ?", revenue),
		"last_updated":  time.Now(),
	}).Error
}

func (r *statsRepo) RecordCanceled(ctx context.Context, waiterID uuid.UUID) error {
	s, err := r.ensureWaiter(ctx, waiterID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(s).Updates(map[string]interface{}{
		"orders_canceled": gorm.Expr("orders_canceled + 1"),
		"last_updated":    time.Now(),
	}).Error
}

func (r *statsRepo) RecordCookStarted(ctx context.Context, cookID uuid.UUID) error {
	s, err := r.ensureCook(ctx, cookID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(s).Updates(map[string]interface{}{
		"active_orders": gorm.Expr("active_orders + 1"),
		"last_updated":  time.Now(),
	}).Error
}

func (r *statsRepo) RecordCookAborted(ctx context.Context, cookID uuid.UUID) error {
	s, err := r.ensureCook(ctx, cookID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(s).Updates(map[string]interface{}{
		"active_orders": gorm.Expr("GREATEST(active_orders - 1, 0)"),
		"last_updated":  time.Now(),
	}).Error
}

func (r *statsRepo) RecordCookFinished(ctx context.Context, cookID uuid.UUID, cookingTime time.Duration) error {
	s, err := r.ensureCook(ctx, cookID)
	if err != nil {
		return err
	}
	// Running average over completed orders.
	mins := cookingTime.Minutes()
	newAvg := (s.AvgCookingTimeMins*float64(s.CompletedOrders) + mins) / float64(s.CompletedOrders+1)
	return r.db.WithContext(ctx).Model(s).Updates(map[string]interface{}{
		"active_orders":         gorm.Expr("GREATEST(active_orders - 1, 0)"),
		"completed_orders":      gorm.Expr("completed_orders + 1"),
		"avg_cooking_time_mins": newAvg,
		"last_updated":          time.Now(),
	}).Error
}
