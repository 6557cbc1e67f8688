package service

import (
	"context"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apperr"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type StatsService interface {
	UserStats(ctx context.Context, actor Actor, userID uuid.UUID) (*dto.UserStatsResponse, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	userRepo  repository.UserRepository
}

func NewStatsService(statsRepo repository.StatsRepository, userRepo repository.UserRepository) StatsService {
	return &statsService{statsRepo: statsRepo, userRepo: userRepo}
}

// UserStats returns the aggregates for one staff member. Staff may read
// their own numbers; admins may read anyone's. A user without recorded
// activity gets zeroes, not a 404.
func (s *statsService) UserStats(ctx context.Context, actor Actor, userID uuid.UUID) (*dto.UserStatsResponse, error) {
	if actor.ID != userID && actor.Role != model.RoleAdmin {
		return nil, apperr.Forbidden("may only view your own statistics")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}

	resp := &dto.UserStatsResponse{
		UserID: user.ID.String(),
		Role:   string(user.Role),
	}

	switch user.Role {
	case model.RoleWaiter:
		block := &dto.WaiterStatsBlock{TotalRevenue: decimal.Zero}
		if ws, err := s.statsRepo.FindWaiterStats(ctx, userID); err == nil {
			block.OrdersServed = ws.OrdersServed
			block.OrdersCanceled = ws.OrdersCanceled
			block.TotalRevenue = ws.TotalRevenue
		}
		resp.Waiter = block
	case model.RoleChef:
		block := &dto.CookStatsBlock{}
		if cs, err := s.statsRepo.FindCookStats(ctx, userID); err == nil {
			block.ActiveOrders = cs.ActiveOrders
			block.CompletedOrders = cs.CompletedOrders
			block.AvgCookingTimeMins = cs.AvgCookingTimeMins
		}
		resp.Cook = block
	default:
		return nil, apperr.Validation("statistics are tracked for waiters and chefs only")
	}

	return resp, nil
}
