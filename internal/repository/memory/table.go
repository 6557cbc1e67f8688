package memory

import (
	"context"
	"sort"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableRepo struct{ s *Store }

func NewTableRepository(s *Store) repository.TableRepository { return &TableRepo{s: s} }

var _ repository.TableRepository = (*TableRepo)(nil)

func (r *TableRepo) Create(_ context.Context, t *model.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tables {
		if existing.TableNumber == t.TableNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = model.TableFree
	}
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.s.tables[t.ID] = cloneTable(t)
	return nil
}

func (r *TableRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Table, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tables[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneTable(t), nil
}

func (r *TableRepo) FindByNumber(_ context.Context, number int) (*model.Table, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tables {
		if t.TableNumber == number {
			return cloneTable(t), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *TableRepo) List(_ context.Context) ([]model.Table, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Table, 0, len(r.s.tables))
	for _, t := range r.s.tables {
		out = append(out, *cloneTable(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNumber < out[j].TableNumber })
	return out, nil
}

func (r *TableRepo) ListFree(ctx context.Context) ([]model.Table, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if t.Status == model.TableFree {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TableRepo) Update(_ context.Context, t *model.Table) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tables[t.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	t.UpdatedAt = time.Now()
	r.s.tables[t.ID] = cloneTable(t)
	return nil
}

func (r *TableRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tables, id)
	return nil
}

func (r *TableRepo) BindTx(_ *gorm.DB, tableID, orderID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tables[tableID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	id := orderID
	t.Status = model.TableOccupied
	t.ActiveOrderID = &id
	t.UpdatedAt = time.Now()
	return nil
}

func (r *TableRepo) UnbindTx(_ *gorm.DB, tableID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tables[tableID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = model.TableFree
	t.ActiveOrderID = nil
	t.UpdatedAt = time.Now()
	return nil
}
