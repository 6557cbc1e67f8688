package worker

// stats_worker.go
// Folds order lifecycle events into per-waiter and per-chef aggregates so
// reads never have to scan the orders table.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type StatsWorker struct {
	statsRepo repository.StatsRepository
}

func NewStatsWorker(statsRepo repository.StatsRepository) *StatsWorker {
	return &StatsWorker{statsRepo: statsRepo}
}

// Process applies one lifecycle event to the aggregates. Events carry the
// staff IDs captured at transition time, so a reassigned order cannot skew
// someone else's numbers.
func (w *StatsWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload StatsJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("stats_worker: invalid payload")
		return
	}

	var err error
	switch payload.Event {
	case "start":
		if chefID, ok := parseID(payload.ChefID); ok {
			err = w.statsRepo.RecordCookStarted(ctx, chefID)
		}
	case "mark_ready":
		if chefID, ok := parseID(payload.ChefID); ok {
			cookingTime := time.Since(payload.CreatedAt)
			if cookingTime < 0 {
				cookingTime = 0
			}
			err = w.statsRepo.RecordCookFinished(ctx, chefID, cookingTime)
		}
	case "complete":
		if waiterID, ok := parseID(payload.WaiterID); ok {
			err = w.statsRepo.RecordServed(ctx, waiterID, payload.Total)
		}
	case "cancel":
		if waiterID, ok := parseID(payload.WaiterID); ok {
			err = w.statsRepo.RecordCanceled(ctx, waiterID)
		}
		// a cancel from cooking must release the chef's active slot
		if chefID, ok := parseID(payload.ChefID); ok && err == nil {
			err = w.statsRepo.RecordCookAborted(ctx, chefID)
		}
	default:
		log.Warn().Str("event", payload.Event).Str("order_id", payload.OrderID).
			Msg("stats_worker: unknown event dropped")
		return
	}

	if err != nil {
		log.Error().Err(err).Str("event", payload.Event).Str("order_id", payload.OrderID).
			Msg("stats_worker: failed to record event")
		return
	}
	log.Debug().Str("event", payload.Event).Str("order_id", payload.OrderID).
		Msg("stats_worker: event recorded")
}

func parseID(s string) (uuid.UUID, bool) {
	if s == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}
