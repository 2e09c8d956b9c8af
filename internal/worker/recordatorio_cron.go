package worker

// recordatorio_cron.go
// Background goroutine that periodically looks for pending orders with an
// appointment tomorrow and emails the patient a reminder. The per-order
// recordatorio_enviado flag makes each reminder single-shot.

import (
	"context"
	"fmt"
	"time"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/repository"

	"github.com/rs/zerolog/log"
)

const recordatorioTickInterval = 1 * time.Hour

// RecordatorioCronConfig holds all dependencies for the reminder goroutine.
type RecordatorioCronConfig struct {
	OrdenRepo     repository.OrdenRepository
	Dispatcher    *Dispatcher
	NombreClinica string
}

// StartRecordatorioCron launches a background goroutine that ticks hourly,
// queries tomorrow's appointments, and enqueues reminder emails.
// It respects the context for graceful shutdown.
func StartRecordatorioCron(ctx context.Context, cfg RecordatorioCronConfig) {
	go func() {
		ticker := time.NewTicker(recordatorioTickInterval)
		defer ticker.Stop()

		log.Info().Msg("recordatorio_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("recordatorio_cron: shutting down")
				return
			case <-ticker.C:
				processRecordatorios(ctx, cfg)
			}
		}
	}()
}

func processRecordatorios(ctx context.Context, cfg RecordatorioCronConfig) {
	manana := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	ordenes, err := cfg.OrdenRepo.ListRecordatoriosPendientes(ctx, manana)
	if err != nil {
		log.Error().Err(err).Msg("recordatorio_cron: failed to query appointments")
		return
	}
	if len(ordenes) == 0 {
		return
	}

	log.Info().Int("count", len(ordenes)).Str("fecha", manana).Msg("recordatorio_cron: processing reminders")

	for i := range ordenes {
		orden := &ordenes[i]

		// Patients without email still get the flag set — there is nothing
		// to send and retrying every tick would be pointless.
		if orden.Paciente != nil && orden.Paciente.Email != nil && *orden.Paciente.Email != "" {
			hora := "por confirmar"
			if orden.HoraCita != nil {
				hora = *orden.HoraCita
			}
			job := EmailJobPayload{
				ToEmail: *orden.Paciente.Email,
				Subject: fmt.Sprintf("%s — Recordatorio de cita", cfg.NombreClinica),
				Body: fmt.Sprintf("Le recordamos su cita para toma de muestras el %s a las %s.\nOrden: %s",
					manana, hora, orden.ID.String()[:8]),
			}
			if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
				log.Warn().Err(err).Str("orden_id", orden.ID.String()).Msg("recordatorio_cron: failed to enqueue email")
				continue
			}
		}

		if err := cfg.OrdenRepo.MarcarRecordatorioEnviado(ctx, orden.ID); err != nil {
			log.Error().Err(err).Str("orden_id", orden.ID.String()).Msg("recordatorio_cron: failed to mark reminder sent")
		}
	}
}
