package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apperr"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository/memory"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsFixture struct {
	svc       service.StatsService
	statsRepo repository.StatsRepository
	waiterID  uuid.UUID
	chefID    uuid.UUID
	adminID   uuid.UUID
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	f := &statsFixture{statsRepo: memory.NewStatsRepository(store)}
	f.svc = service.NewStatsService(f.statsRepo, userRepo)

	ctx := context.Background()
	for _, u := range []*model.User{
		{Username: "anna", FullName: "Anna", PasswordHash: "x", Role: model.RoleWaiter, Active: true},
		{Username: "boris", FullName: "Boris", PasswordHash: "x", Role: model.RoleChef, Active: true},
		{Username: "root", FullName: "Root", PasswordHash: "x", Role: model.RoleAdmin, Active: true},
	} {
		require.NoError(t, userRepo.Create(ctx, u))
		switch u.Role {
		case model.RoleWaiter:
			f.waiterID = u.ID
		case model.RoleChef:
			f.chefID = u.ID
		case model.RoleAdmin:
			f.adminID = u.ID
		}
	}
	return f
}

func TestUserStatsZeroesForNewStaff(t *testing.T) {
	f := newStatsFixture(t)
	self := service.Actor{ID: f.waiterID, Role: model.RoleWaiter}

	resp, err := f.svc.UserStats(context.Background(), self, f.waiterID)
	require.NoError(t, err)
	require.NotNil(t, resp.Waiter)
	assert.Nil(t, resp.Cook)
	assert.Equal(t, 0, resp.Waiter.OrdersServed)
	assert.True(t, resp.Waiter.TotalRevenue.IsZero())
}

func TestUserStatsReflectsRecordedEvents(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	require.NoError(t, f.statsRepo.RecordServed(ctx, f.waiterID, decimal.NewFromInt(785)))
	require.NoError(t, f.statsRepo.RecordServed(ctx, f.waiterID, decimal.NewFromInt(215)))
	require.NoError(t, f.statsRepo.RecordCanceled(ctx, f.waiterID))

	require.NoError(t, f.statsRepo.RecordCookStarted(ctx, f.chefID))
	require.NoError(t, f.statsRepo.RecordCookStarted(ctx, f.chefID))
	require.NoError(t, f.statsRepo.RecordCookFinished(ctx, f.chefID, 30*time.Minute))

	admin := service.Actor{ID: f.adminID, Role: model.RoleAdmin}

	waiter, err := f.svc.UserStats(ctx, admin, f.waiterID)
	require.NoError(t, err)
	assert.Equal(t, 2, waiter.Waiter.OrdersServed)
	assert.Equal(t, 1, waiter.Waiter.OrdersCanceled)
	assert.True(t, waiter.Waiter.TotalRevenue.Equal(decimal.NewFromInt(1000)))

	chef, err := f.svc.UserStats(ctx, admin, f.chefID)
	require.NoError(t, err)
	require.NotNil(t, chef.Cook)
	assert.Equal(t, 1, chef.Cook.ActiveOrders)
	assert.Equal(t, 1, chef.Cook.CompletedOrders)
	assert.InDelta(t, 30.0, chef.Cook.AvgCookingTimeMins, 0.01)
}

func TestUserStatsAccessControl(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	waiter := service.Actor{ID: f.waiterID, Role: model.RoleWaiter}
	_, err := f.svc.UserStats(ctx, waiter, f.chefID)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	admin := service.Actor{ID: f.adminID, Role: model.RoleAdmin}
	_, err = f.svc.UserStats(ctx, admin, f.adminID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "admins have no tracked stats: %v", err)

	_, err = f.svc.UserStats(ctx, admin, uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAvgCookingTimeRunningMean(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()

	require.NoError(t, f.statsRepo.RecordCookStarted(ctx, f.chefID))
	require.NoError(t, f.statsRepo.RecordCookFinished(ctx, f.chefID, 20*time.Minute))
	require.NoError(t, f.statsRepo.RecordCookStarted(ctx, f.chefID))
	require.NoError(t, f.statsRepo.RecordCookFinished(ctx, f.chefID, 40*time.Minute))

	cs, err := f.statsRepo.FindCookStats(ctx, f.chefID)
	require.NoError(t, err)
	assert.Equal(t, 2, cs.CompletedOrders)
	assert.Equal(t, 0, cs.ActiveOrders)
	assert.InDelta(t, 30.0, cs.AvgCookingTimeMins, 0.01)
}
