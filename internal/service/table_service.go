package service

import (
	"context"
	"fmt"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apperr"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/rbac"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type TableService interface {
	CreateTable(ctx context.Context, actor Actor, req dto.CreateTableRequest) (*dto.TableResponse, error)
	GetTable(ctx context.Context, id uuid.UUID) (*dto.TableResponse, error)
	GetTableByNumber(ctx context.Context, number int) (*dto.TableResponse, error)
	ListTables(ctx context.Context, freeOnly bool) ([]dto.TableResponse, error)
	UpdateTable(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateTableRequest) (*dto.TableResponse, error)
	DeleteTable(ctx context.Context, actor Actor, id uuid.UUID) error

	// CheckConsistency verifies that every non-free table points at a live
	// order and every live back-reference sits on a non-free table.
	// Returns the list of violations found.
	CheckConsistency(ctx context.Context) ([]string, error)
}

type tableService struct {
	repo      repository.TableRepository
	orderRepo repository.OrderRepository
}

func NewTableService(repo repository.TableRepository, orderRepo repository.OrderRepository) TableService {
	return &tableService{repo: repo, orderRepo: orderRepo}
}

func (s *tableService) CreateTable(ctx context.Context, actor Actor, req dto.CreateTableRequest) (*dto.TableResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageTables) {
		return nil, apperr.Forbidden("only admins may manage tables")
	}
	if existing, err := s.repo.FindByNumber(ctx, req.TableNumber); err == nil && existing != nil {
		return nil, apperr.Conflict(fmt.Sprintf("table %d already exists", req.TableNumber))
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 4
	}
	table := &model.Table{
		TableNumber: req.TableNumber,
		Capacity:    capacity,
		Location:    req.Location,
		Status:      model.TableFree,
	}
	if err := s.repo.Create(ctx, table); err != nil {
		return nil, err
	}
	resp := tableToResponse(table)
	return &resp, nil
}

func (s *tableService) GetTable(ctx context.Context, id uuid.UUID) (*dto.TableResponse, error) {
	table, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("table not found")
	}
	resp := tableToResponse(table)
	return &resp, nil
}

func (s *tableService) GetTableByNumber(ctx context.Context, number int) (*dto.TableResponse, error) {
	table, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, apperr.NotFound("table not found")
	}
	resp := tableToResponse(table)
	return &resp, nil
}

func (s *tableService) ListTables(ctx context.Context, freeOnly bool) ([]dto.TableResponse, error) {
	var tables []model.Table
	var err error
	if freeOnly {
		tables, err = s.repo.ListFree(ctx)
	} else {
		tables, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TableResponse, len(tables))
	for i := range tables {
		resp[i] = tableToResponse(&tables[i])
	}
	return resp, nil
}

func (s *tableService) UpdateTable(ctx context.Context, actor Actor, id uuid.UUID, req dto.UpdateTableRequest) (*dto.TableResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageTables) {
		return nil, apperr.Forbidden("only admins may manage tables")
	}
	table, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("table not found")
	}

	if req.TableNumber != nil && *req.TableNumber != table.TableNumber {
		if existing, err := s.repo.FindByNumber(ctx, *req.TableNumber); err == nil && existing != nil {
			return nil, apperr.Conflict(fmt.Sprintf("table %d already exists", *req.TableNumber))
		}
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = req.Location
	}

	if err := s.repo.Update(ctx, table); err != nil {
		return nil, err
	}
	resp := tableToResponse(table)
	return &resp, nil
}

func (s *tableService) DeleteTable(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !rbac.CanPerform(actor.Role, rbac.ActionManageTables) {
		return apperr.Forbidden("only admins may manage tables")
	}
	table, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperr.NotFound("table not found")
	}
	if table.ActiveOrderID != nil {
		if order, err := s.orderRepo.FindByID(ctx, *table.ActiveOrderID); err == nil && !order.Status.Terminal() {
			return apperr.Conflict(fmt.Sprintf("table %d has an active order", table.TableNumber))
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *tableService) CheckConsistency(ctx context.Context) ([]string, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// Invariant: status ∈ {occupied, reserved} ⇔ activeOrderID refers to a
	// non-terminal order; free otherwise.
	var violations []string
	for i := range tables {
		t := &tables[i]
		if t.ActiveOrderID == nil {
			if t.Status != model.TableFree {
				violations = append(violations, fmt.Sprintf("table %d is %s but has no active order", t.TableNumber, t.Status))
			}
			continue
		}
		order, err := s.orderRepo.FindByID(ctx, *t.ActiveOrderID)
		switch {
		case err != nil:
			violations = append(violations, fmt.Sprintf("table %d references missing order %s", t.TableNumber, t.ActiveOrderID))
		case order.Status.Terminal():
			violations = append(violations, fmt.Sprintf("table %d references terminal order %s", t.TableNumber, order.ID))
		case t.Status == model.TableFree:
			violations = append(violations, fmt.Sprintf("table %d is free but order %s is still active", t.TableNumber, order.ID))
		}
	}
	if len(violations) > 0 {
		log.Warn().Strs("violations", violations).Msg("table consistency check failed")
	}
	return violations, nil
}

func tableToResponse(t *model.Table) dto.TableResponse {
	resp := dto.TableResponse{
		ID:          t.ID.String(),
		TableNumber: t.TableNumber,
		Capacity:    t.Capacity,
		Location:    t.Location,
		Status:      string(t.Status),
	}
	if t.ActiveOrderID != nil {
		id := t.ActiveOrderID.String()
		resp.ActiveOrderID = &id
	}
	return resp
}
