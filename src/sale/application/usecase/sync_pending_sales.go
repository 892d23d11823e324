package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"pdv/src/sale/application/request"
	"pdv/src/sale/domain/entity"
	"pdv/src/sale/domain/port"
	"pdv/src/shared/infrastructure/metrics"
)

// SyncReport resume el resultado de un drenado de la cola local.
type SyncReport struct {
	Synced    int `json:"synced"`
	Remaining int `json:"remaining"`
}

// SyncPendingSalesUseCase drena la cola local durable contra el almacén
// remoto cuando vuelve la conectividad (o por disparo manual). El drenado
// es estrictamente secuencial, nunca en paralelo: evita problemas de orden
// sobre cualquier numeración secuencial que asigne el servidor.
type SyncPendingSalesUseCase struct {
	queue     port.PendingSaleQueue
	saleRepo  port.SaleRepository
	committer *CommitSaleUseCase
}

// NewSyncPendingSalesUseCase crea una nueva instancia del caso de uso.
func NewSyncPendingSalesUseCase(queue port.PendingSaleQueue, saleRepo port.SaleRepository, committer *CommitSaleUseCase) *SyncPendingSalesUseCase {
	return &SyncPendingSalesUseCase{
		queue:     queue,
		saleRepo:  saleRepo,
		committer: committer,
	}
}

// Execute drena la cola FIFO. Cada entrada re-corre la misma vía de commit
// online con su ID original, que el insert idempotente del header honra
// como clave de deduplicación. Si una entrada ya existe remota (sync a
// medias de una corrida anterior) se marca sincronizada sin repetir los
// efectos. La primera falla corta el drenado: el resto queda encolado para
// la próxima invocación, preservando el orden FIFO. Sin backoff.
func (uc *SyncPendingSalesUseCase) Execute(ctx context.Context) (*SyncReport, error) {
	entries, err := uc.queue.DequeueAll(ctx)
	if err != nil {
		return nil, &entity.QueueCorruptError{Err: err}
	}
	if len(entries) == 0 {
		return &SyncReport{}, nil
	}

	log.Printf("🔄 Sincronizando %d venta(s) pendiente(s)...", len(entries))

	report := &SyncReport{Remaining: len(entries)}
	for _, pending := range entries {
		// Dedup por ID: si el header ya está remoto, los efectos ya
		// corrieron (o correrán bajo ese commit); solo se remueve de la cola.
		exists, err := uc.saleRepo.Exists(ctx, pending.ID)
		if err != nil {
			log.Printf("⚠️  Sync detenido: error consultando venta %s: %v", pending.ID, err)
			return report, nil
		}
		if exists {
			if err := uc.markSynced(ctx, pending.ID); err != nil {
				return report, err
			}
			report.Synced++
			report.Remaining--
			continue
		}

		var req request.CommitSaleRequest
		if err := json.Unmarshal(pending.Payload, &req); err != nil {
			// Payload ilegible: la cola local está dañada, hay que alertar.
			return report, &entity.QueueCorruptError{Err: fmt.Errorf("unreadable pending sale %s: %w", pending.ID, err)}
		}

		outcome, err := uc.committer.CommitOnline(ctx, &req, nil)
		if err != nil {
			return report, err
		}
		if !outcome.Committed() {
			// Rechazo o nueva falla remota: la entrada sigue encolada y el
			// drenado corta acá para no desordenar la cola.
			log.Printf("⚠️  Sync detenido en venta %s: outcome=%s", pending.ID, outcome.Code)
			return report, nil
		}

		if err := uc.markSynced(ctx, pending.ID); err != nil {
			return report, err
		}
		metrics.SalesSynced.Inc()
		report.Synced++
		report.Remaining--
		log.Printf("✅ Venta sincronizada: id=%s", pending.ID)
	}

	log.Printf("🔄 Sync completo: %d sincronizada(s), %d pendiente(s)", report.Synced, report.Remaining)
	return report, nil
}

func (uc *SyncPendingSalesUseCase) markSynced(ctx context.Context, id uuid.UUID) error {
	if err := uc.queue.MarkSynced(ctx, id); err != nil {
		return &entity.QueueCorruptError{Err: err}
	}
	return nil
}
