package worker

// respaldo_worker.go
// Processes remote backup jobs from QueueRespaldo: snapshots the full
// state and POSTs it to the backup server through the circuit breaker,
// with exponential backoff. Exhausted jobs land in the DLQ.

import (
	"context"
	"encoding/json"

	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/dto"
	"github.com/Axelgars/NEW-VERSION-JOBALABS/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxRespaldoAttempts = 3

// SnapshotFunc produces the current full-state snapshot. Wired to the
// export service so the worker package stays decoupled from it.
type SnapshotFunc func(ctx context.Context) (*dto.Snapshot, error)

type RespaldoWorker struct {
	client   *infra.RespaldoClient
	breaker  *infra.RespaldoBreaker
	rdb      *redis.Client
	snapshot SnapshotFunc
}

func NewRespaldoWorker(client *infra.RespaldoClient, breaker *infra.RespaldoBreaker, rdb *redis.Client, snapshot SnapshotFunc) *RespaldoWorker {
	return &RespaldoWorker{client: client, breaker: breaker, rdb: rdb, snapshot: snapshot}
}

// Process snapshots the state at execution time — a backup queued an hour
// ago still pushes current data.
func (w *RespaldoWorker) Process(ctx context.Context, raw json.RawMessage) {
	snap, err := w.snapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("respaldo_worker: snapshot failed")
		return
	}

	sendErr := withRetry(ctx, maxRespaldoAttempts, func(attempt int) error {
		err := w.breaker.Ejecutar(func() error {
			return w.client.Enviar(ctx, snap)
		})
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("respaldo_worker: push failed, retrying")
		}
		return err
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Msg("respaldo_worker: push failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueRespaldo, "respaldo", raw, sendErr.Error(), maxRespaldoAttempts)
		return
	}
	log.Info().
		Int("pacientes", len(snap.Pacientes)).
		Int("ordenes_historicas", len(snap.OrdenesHistoricas)).
		Msg("respaldo_worker: snapshot pushed")
}
