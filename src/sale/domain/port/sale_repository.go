package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pdv/src/sale/domain/entity"
)

// SaleRepository define el contrato contra el almacén remoto de ventas.
// Las operaciones son escrituras independientes a propósito: el commit es
// una secuencia ordenada best-effort (saga), no una transacción ACID
// multi-entidad. Solo la falla de CreateHeader dispara el fallback offline.
type SaleRepository interface {
	// CreateHeader inserta el header de la venta. Es idempotente por ID:
	// insertar un ID ya existente no es error ni duplica.
	CreateHeader(ctx context.Context, sale *entity.Sale) error

	// Exists indica si el header ya está en el almacén remoto.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// AddItems persiste las líneas de la venta.
	AddItems(ctx context.Context, saleID uuid.UUID, items []entity.SaleItem) error

	// AddAllocations persiste las asignaciones de pago.
	AddAllocations(ctx context.Context, saleID uuid.UUID, allocations []entity.PaymentAllocation) error

	// SetFiscalDocument registra la clave de acceso y protocolo del
	// comprobante emitido.
	SetFiscalDocument(ctx context.Context, saleID uuid.UUID, accessKey, protocol string) error

	// FindByID carga el aggregate completo (header + items + pagos).
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	// MarkCancelled pasa el header a CANCELLED con motivo y timestamp.
	MarkCancelled(ctx context.Context, id uuid.UUID, reason string, at time.Time) error
}
