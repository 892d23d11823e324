package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PendingSaleStatus es el estado de sincronización de una venta encolada.
type PendingSaleStatus string

const (
	PendingSaleStatusPending PendingSaleStatus = "pending"
	PendingSaleStatusSynced  PendingSaleStatus = "synced"
)

// PendingSale es una venta que no pudo confirmarse contra el almacén remoto
// y quedó en la cola local durable. El payload es el snapshot inmutable del
// request de commit; el ID es el mismo que tendrá la venta al sincronizar,
// así la réplica es idempotente.
type PendingSale struct {
	ID        uuid.UUID         `json:"id"`
	Payload   json.RawMessage   `json:"payload"`
	Status    PendingSaleStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewPendingSale arma la entrada de cola para una venta diferida.
func NewPendingSale(id uuid.UUID, payload json.RawMessage) *PendingSale {
	return &PendingSale{
		ID:        id,
		Payload:   payload,
		Status:    PendingSaleStatusPending,
		CreatedAt: time.Now(),
	}
}
