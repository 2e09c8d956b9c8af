package worker

// recibo_worker.go
// Processes receipt jobs from QueueRecibos: renders the payment receipt PDF
// for a delivered order and, when the patient has an email on file,
// enqueues an email job with the receipt attached.
//
// The line items come from the archive snapshot taken at delivery, so the
// rendered PDF is the same no matter when the job actually runs.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/infra"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReciboWorker struct {
	historialRepo  repository.HistorialRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
	nombreClinica  string
}

func NewReciboWorker(
	historialRepo repository.HistorialRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
	nombreClinica string,
) *ReciboWorker {
	return &ReciboWorker{
		historialRepo:  historialRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
		nombreClinica:  nombreClinica,
	}
}

// Process handles a single receipt job:
//  1. Parse ReciboJobPayload from the job envelope
//  2. Fetch the archived order with its items
//  3. Render the receipt PDF
//  4. Optionally enqueue an email job for the patient
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}

	ordenID, err := uuid.Parse(payload.OrdenID)
	if err != nil {
		log.Error().Str("orden_id", payload.OrdenID).Msg("recibo_worker: invalid orden_id")
		return
	}

	orden, err := w.historialRepo.FindByID(ctx, ordenID)
	if err != nil {
		log.Error().Err(err).Str("orden_id", payload.OrdenID).Msg("recibo_worker: orden not found in archive")
		return
	}

	data := infra.ReciboDesdeOrden(orden, w.nombreClinica)

	pdfPath, err := infra.GenerarReciboPDF(data, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("orden_id", payload.OrdenID).Msg("recibo_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("orden_id", payload.OrdenID).Msg("recibo_worker: PDF generated")

	if orden.Paciente == nil || orden.Paciente.Email == nil || *orden.Paciente.Email == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: *orden.Paciente.Email,
		Subject: fmt.Sprintf("%s — Comprobante de pago", w.nombreClinica),
		Body: fmt.Sprintf("Adjunto encontrará el comprobante de pago de su orden.\nTotal: $%s",
			orden.TotalFinal.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", *orden.Paciente.Email).Msg("recibo_worker: failed to enqueue email")
	} else {
		log.Info().Str("email", *orden.Paciente.Email).Msg("recibo_worker: email job enqueued")
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
