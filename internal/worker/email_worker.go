package worker

// email_worker.go
// Processes email jobs from QueueEmail. Delivery is retried with backoff;
// jobs that still fail land in the dead letter queue.

import (
	"context"
	"encoding/json"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxEmailAttempts = 3

type EmailWorker struct {
	mailer *infra.Mailer
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, rdb: rdb}
}

// Process sends an email with the PDF receipt as attachment.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}
	if w.mailer == nil {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured — dropping job")
		return
	}

	err := withRetry(ctx, maxEmailAttempts, func(attempt int) error {
		if err := w.mailer.SendReceipt(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("to", payload.ToEmail).
				Msg("email_worker: send failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("email_worker: failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), maxEmailAttempts)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: receipt sent")
}
