package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders a PDF receipt for a
// completed order and, when the serving waiter has an email on file,
// enqueues a copy for delivery.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/infra"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReceiptWorker struct {
	orderRepo      repository.OrderRepository
	tableRepo      repository.TableRepository
	userRepo       repository.UserRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReceiptWorker(
	orderRepo repository.OrderRepository,
	tableRepo repository.TableRepository,
	userRepo repository.UserRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		orderRepo:      orderRepo,
		tableRepo:      tableRepo,
		userRepo:       userRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process renders the receipt for one completed order.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("receipt_worker: invalid order_id")
		return
	}

	order, err := w.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("receipt_worker: order not found")
		return
	}

	tableNumber := 0
	if table, err := w.tableRepo.FindByID(ctx, order.TableID); err == nil {
		tableNumber = table.TableNumber
	}

	pdfPath, err := infra.GenerateReceiptPDF(order, tableNumber, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("receipt_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("order_id", payload.OrderID).Msg("receipt_worker: PDF generated")

	if order.WaiterID == nil {
		return
	}
	waiter, err := w.userRepo.FindByID(ctx, *order.WaiterID)
	if err != nil || waiter.Email == nil || *waiter.Email == "" {
		return
	}

	emailJob := EmailJobPayload{
		ToEmail: *waiter.Email,
		Subject: fmt.Sprintf("Receipt — table %d", tableNumber),
		Body:    fmt.Sprintf("Attached is the receipt for order %s.\nTotal: %s", order.ID, order.TotalAmount.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *waiter.Email).Msg("receipt_worker: failed to enqueue email")
	}
}
