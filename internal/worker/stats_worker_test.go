package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(t *testing.T, p StatsJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestStatsWorkerFoldsLifecycle(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewStatsRepository(store)
	w := NewStatsWorker(repo)
	ctx := context.Background()

	waiterID := uuid.New()
	chefID := uuid.New()
	orderID := uuid.New().String()
	createdAt := time.Now().Add(-25 * time.Minute)

	w.Process(ctx, payload(t, StatsJobPayload{OrderID: orderID, Event: "start", ChefID: chefID.String(), CreatedAt: createdAt}))
	w.Process(ctx, payload(t, StatsJobPayload{OrderID: orderID, Event: "mark_ready", ChefID: chefID.String(), CreatedAt: createdAt}))
	w.Process(ctx, payload(t, StatsJobPayload{
		OrderID: orderID, Event: "complete", WaiterID: waiterID.String(), Total: decimal.NewFromInt(785),
	}))

	cs, err := repo.FindCookStats(ctx, chefID)
	require.NoError(t, err)
	assert.Equal(t, 0, cs.ActiveOrders)
	assert.Equal(t, 1, cs.CompletedOrders)
	assert.Greater(t, cs.AvgCookingTimeMins, 24.0)

	ws, err := repo.FindWaiterStats(ctx, waiterID)
	require.NoError(t, err)
	assert.Equal(t, 1, ws.OrdersServed)
	assert.True(t, ws.TotalRevenue.Equal(decimal.NewFromInt(785)))
}

func TestStatsWorkerCancelEvent(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewStatsRepository(store)
	w := NewStatsWorker(repo)
	ctx := context.Background()

	waiterID := uuid.New()
	w.Process(ctx, payload(t, StatsJobPayload{OrderID: uuid.New().String(), Event: "cancel", WaiterID: waiterID.String()}))

	ws, err := repo.FindWaiterStats(ctx, waiterID)
	require.NoError(t, err)
	assert.Equal(t, 1, ws.OrdersCanceled)
	assert.Equal(t, 0, ws.OrdersServed)
}

func TestStatsWorkerCancelFromCookingReleasesChefSlot(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewStatsRepository(store)
	w := NewStatsWorker(repo)
	ctx := context.Background()

	waiterID := uuid.New()
	chefID := uuid.New()
	orderID := uuid.New().String()

	w.Process(ctx, payload(t, StatsJobPayload{OrderID: orderID, Event: "start", ChefID: chefID.String()}))
	w.Process(ctx, payload(t, StatsJobPayload{
		OrderID: orderID, Event: "cancel", WaiterID: waiterID.String(), ChefID: chefID.String(),
	}))

	cs, err := repo.FindCookStats(ctx, chefID)
	require.NoError(t, err)
	assert.Equal(t, 0, cs.ActiveOrders)
	assert.Equal(t, 0, cs.CompletedOrders)

	ws, err := repo.FindWaiterStats(ctx, waiterID)
	require.NoError(t, err)
	assert.Equal(t, 1, ws.OrdersCanceled)
}

func TestStatsWorkerIgnoresGarbage(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewStatsRepository(store)
	w := NewStatsWorker(repo)
	ctx := context.Background()

	// none of these may panic or write aggregates
	w.Process(ctx, json.RawMessage(`{not json`))
	w.Process(ctx, payload(t, StatsJobPayload{OrderID: "x", Event: "reheat"}))
	w.Process(ctx, payload(t, StatsJobPayload{OrderID: "x", Event: "complete", WaiterID: "not-a-uuid"}))

	_, err := repo.FindWaiterStats(ctx, uuid.New())
	assert.Error(t, err)
}
