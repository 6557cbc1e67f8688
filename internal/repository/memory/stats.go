package memory

import (
	"context"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatsRepo struct{ s *Store }

func NewStatsRepository(s *Store) repository.StatsRepository { return &StatsRepo{s: s} }

var _ repository.StatsRepository = (*StatsRepo)(nil)

func (r *StatsRepo) FindWaiterStats(_ context.Context, waiterID uuid.UUID) (*model.WaiterStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.waiterStats[waiterID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *StatsRepo) FindCookStats(_ context.Context, cookID uuid.UUID) (*model.CookStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.cookStats[cookID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *StatsRepo) ensureWaiter(waiterID uuid.UUID) *model.WaiterStats {
	s, ok := r.s.waiterStats[waiterID]
	if !ok {
		s = &model.WaiterStats{ID: uuid.New(), WaiterID: waiterID, TotalRevenue: decimal.Zero}
		r.s.waiterStats[waiterID] = s
	}
	return s
}

func (r *StatsRepo) ensureCook(cookID uuid.UUID) *model.CookStats {
	s, ok := r.s.cookStats[cookID]
	if !ok {
		s = &model.CookStats{ID: uuid.New(), CookID: cookID}
		r.s.cookStats[cookID] = s
	}
	return s
}

func (r *StatsRepo) RecordServed(_ context.Context, waiterID uuid.UUID, revenue decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s := r.ensureWaiter(waiterID)
	s.OrdersServed++
	s.TotalRevenue = s.TotalRevenue.Add(revenue)
	s.LastUpdated = time.Now()
	return nil
}

func (r *StatsRepo) RecordCanceled(_ context.Context, waiterID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s := r.ensureWaiter(waiterID)
	s.OrdersCanceled++
	s.LastUpdated = time.Now()
	return nil
}

func (r *StatsRepo) RecordCookStarted(_ context.Context, cookID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s := r.ensureCook(cookID)
	s.ActiveOrders++
	s.LastUpdated = time.Now()
	return nil
}

func (r *StatsRepo) RecordCookAborted(_ context.Context, cookID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s := r.ensureCook(cookID)
	if s.ActiveOrders > 0 {
		s.ActiveOrders--
	}
	s.LastUpdated = time.Now()
	return nil
}

func (r *StatsRepo) RecordCookFinished(_ context.Context, cookID uuid.UUID, cookingTime time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s := r.ensureCook(cookID)
	s.AvgCookingTimeMins = (s.AvgCookingTimeMins*float64(s.CompletedOrders) + cookingTime.Minutes()) / float64(s.CompletedOrders+1)
	s.CompletedOrders++
	if s.ActiveOrders > 0 {
		s.ActiveOrders--
	}
	s.LastUpdated = time.Now()
	return nil
}
