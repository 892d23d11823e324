package port

import (
	"context"

	"github.com/google/uuid"

	"pdv/src/sale/domain/entity"
)

// PendingSaleQueue es la cola local durable de ventas diferidas. Sobrevive
// reinicios del proceso. Contrato: encolar es el fallback obligatorio cuando
// la vía online falla por cualquier motivo; una venta jamás se descarta en
// silencio. Las fallas de la cola se reportan como QueueCorruptError.
type PendingSaleQueue interface {
	// Enqueue persiste la venta diferida. Encolar dos veces el mismo ID no
	// duplica la entrada.
	Enqueue(ctx context.Context, pending *entity.PendingSale) error

	// DequeueAll retorna las entradas pendientes en orden FIFO de inserción.
	DequeueAll(ctx context.Context) ([]*entity.PendingSale, error)

	// MarkSynced elimina la entrada una vez confirmada la persistencia
	// remota.
	MarkSynced(ctx context.Context, id uuid.UUID) error

	// Count retorna la cantidad de entradas pendientes.
	Count(ctx context.Context) (int, error)
}
