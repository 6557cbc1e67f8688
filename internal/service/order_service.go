package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apperr"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/rbac"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies the authenticated staff member performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

type OrderService interface {
	CreateOrder(ctx context.Context, actor Actor, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*dto.OrderResponse, error)
	AddItems(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.AddItemsRequest) (*dto.OrderResponse, error)
	Transition(ctx context.Context, actor Actor, orderID uuid.UUID, event model.OrderEvent) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, actor Actor, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	DeleteOrder(ctx context.Context, actor Actor, orderID uuid.UUID) error
}

type orderService struct {
	repo       repository.OrderRepository
	tableRepo  repository.TableRepository
	dishRepo   repository.DishRepository
	dispatcher *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	tableRepo repository.TableRepository,
	dishRepo repository.DishRepository,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		repo:       repo,
		tableRepo:  tableRepo,
		dishRepo:   dishRepo,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (in-memory source, unit tests).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── CreateOrder ───────────────────────────────────────────────────────────────
// A new order snapshots dish prices into its items: later menu price edits
// never change what the guest owes. Rejections leave no trace — the table
// binding and the order row commit together or not at all.

func (s *orderService) CreateOrder(ctx context.Context, actor Actor, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionCreateOrder) {
		return nil, apperr.Forbidden("role may not create orders")
	}

	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, apperr.Validation("invalid table_id")
	}
	table, err := s.tableRepo.FindByID(ctx, tableID)
	if err != nil {
		return nil, apperr.NotFound("table not found")
	}

	// Occupancy is checked before the item list: an occupied table is a
	// Conflict no matter what the request carries. A dangling reference to
	// a terminal order does not block — it is stale state.
	if table.ActiveOrderID != nil {
		if active, err := s.repo.FindByID(ctx, *table.ActiveOrderID); err == nil && !active.Status.Terminal() {
			return nil, apperr.Conflict(fmt.Sprintf("table %d already has an active order", table.TableNumber))
		}
	}

	if len(req.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		TableID: tableID,
		Status:  model.OrderPending,
		Items:   items,
	}
	if actor.Role == model.RoleWaiter {
		id := actor.ID
		order.WaiterID = &id
	}
	order.ComputeTotal()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, order); err != nil {
			return err
		}
		return s.tableRepo.BindTx(tx, tableID, order.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	return orderToResponse(order), nil
}

// resolveItems turns item requests into line items with snapshotted prices.
func (s *orderService) resolveItems(ctx context.Context, reqs []dto.OrderItemRequest) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(reqs))
	for _, ir := range reqs {
		dishID, err := uuid.Parse(ir.DishID)
		if err != nil {
			return nil, apperr.Validation("invalid dish_id")
		}
		dish, err := s.dishRepo.FindByID(ctx, dishID)
		if err != nil {
			return nil, apperr.NotFound(fmt.Sprintf("dish %s not found", ir.DishID))
		}
		if !dish.Available {
			return nil, apperr.Validation(fmt.Sprintf("dish %q is not available", dish.Name))
		}
		if ir.Quantity < 1 {
			return nil, apperr.Validation("item quantity must be positive")
		}
		items = append(items, model.OrderItem{
			DishID:    dish.ID,
			Name:      dish.Name,
			UnitPrice: dish.Price,
			Quantity:  ir.Quantity,
		})
	}
	return items, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*dto.OrderResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionViewOrders) {
		return nil, apperr.Forbidden("role may not view orders")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("order not found")
	}
	return orderToResponse(order), nil
}

// ── AddItems ──────────────────────────────────────────────────────────────────

func (s *orderService) AddItems(ctx context.Context, actor Actor, orderID uuid.UUID, req dto.AddItemsRequest) (*dto.OrderResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionCreateOrder) {
		return nil, apperr.Forbidden("role may not modify orders")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("no items to add")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperr.NotFound("order not found")
	}
	if order.Status != model.OrderPending && order.Status != model.OrderCooking {
		return nil, apperr.InvalidTransition(
			fmt.Sprintf("items may only be added while pending or cooking, order is %s", order.Status))
	}

	added, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order.Items = append(order.Items, added...)
	order.ComputeTotal()

	// resolveItems left the new subtotals to ComputeTotal; persist only the
	// appended rows plus the recomputed total.
	newRows := order.Items[len(order.Items)-len(added):]
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.AddItemsTx(tx, orderID, newRows, order.TotalAmount)
	})
	if txErr != nil {
		return nil, txErr
	}
	return orderToResponse(order), nil
}

// ── Transition ────────────────────────────────────────────────────────────────
// The status update is a compare-and-swap on the expected current status, so
// two staff members racing on the same order cannot both win. Table side
// effects ride in the same transaction.

func (s *orderService) Transition(ctx context.Context, actor Actor, orderID uuid.UUID, event model.OrderEvent) (*dto.OrderResponse, error) {
	if !event.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown event %q", event))
	}
	if !rbac.CanPerform(actor.Role, rbac.ActionForEvent(event)) {
		return nil, apperr.Forbidden(fmt.Sprintf("role %s may not trigger %s", actor.Role, event))
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperr.NotFound("order not found")
	}

	next, ok := order.Status.Next(event)
	if !ok {
		return nil, apperr.InvalidTransition(
			fmt.Sprintf("cannot %s an order in status %s", event, order.Status))
	}

	var chefID *uuid.UUID
	if event == model.EventStart && actor.Role == model.RoleChef {
		id := actor.ID
		chefID = &id
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		changed, err := s.repo.UpdateStatusTx(tx, orderID, order.Status, next, chefID)
		if err != nil {
			return err
		}
		if !changed {
			// Lost the race: someone else moved the order first.
			return apperr.InvalidTransition(
				fmt.Sprintf("cannot %s an order in status %s", event, order.Status))
		}
		if next.Terminal() {
			return s.tableRepo.UnbindTx(tx, order.TableID)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	order.Status = next
	if chefID != nil {
		order.ChefID = chefID
	}

	s.enqueueFollowups(ctx, order, event)
	return orderToResponse(order), nil
}

// enqueueFollowups dispatches best-effort async jobs after a committed
// transition: statistics on every event, receipt rendering on completion.
func (s *orderService) enqueueFollowups(ctx context.Context, order *model.Order, event model.OrderEvent) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueStats(ctx, worker.StatsJobPayload{
		OrderID:   order.ID.String(),
		Event:     string(event),
		WaiterID:  uuidStr(order.WaiterID),
		ChefID:    uuidStr(order.ChefID),
		Total:     order.TotalAmount,
		CreatedAt: order.CreatedAt,
	})
	if event == model.EventComplete {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJobPayload{OrderID: order.ID.String()})
	}
}

func uuidStr(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// ── ListOrders ────────────────────────────────────────────────────────────────

func (s *orderService) ListOrders(ctx context.Context, actor Actor, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if !rbac.CanPerform(actor.Role, rbac.ActionViewOrders) {
		return nil, apperr.Forbidden("role may not view orders")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	// Chefs get the kitchen view: only orders that still need the kitchen.
	if actor.Role == model.RoleChef {
		filter.Status = string(model.OrderPending) + "," + string(model.OrderCooking)
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── DeleteOrder ───────────────────────────────────────────────────────────────

func (s *orderService) DeleteOrder(ctx context.Context, actor Actor, orderID uuid.UUID) error {
	if !rbac.CanPerform(actor.Role, rbac.ActionDeleteOrder) {
		return apperr.Forbidden("only admins may delete orders")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return apperr.NotFound("order not found")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Clear the back-reference if the table still points here.
		table, err := s.tableRepo.FindByID(ctx, order.TableID)
		if err == nil && table.ActiveOrderID != nil && *table.ActiveOrderID == orderID {
			if err := s.tableRepo.UnbindTx(tx, order.TableID); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, orderID)
	})
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			DishID:    item.DishID.String(),
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	return &dto.OrderResponse{
		ID:          o.ID.String(),
		TableID:     o.TableID.String(),
		WaiterID:    uuidPtrStr(o.WaiterID),
		ChefID:      uuidPtrStr(o.ChefID),
		Status:      string(o.Status),
		Items:       items,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func uuidPtrStr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
