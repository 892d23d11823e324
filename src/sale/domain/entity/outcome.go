package entity

import (
	"github.com/google/uuid"
)

// OutcomeCode es el resultado explícito de un intento de commit. La capa de
// presentación decide cómo mostrarlo; acá no hay UI optimista implícita.
type OutcomeCode string

const (
	OutcomeCommitted OutcomeCode = "committed"
	OutcomeQueued    OutcomeCode = "queued"
	OutcomeRejected  OutcomeCode = "rejected"
)

// CommitOutcome es el retorno del commiter de ventas.
//   - Committed: header persistido remoto; Warnings acumula fallas no
//     fatales de efectos secundarios (caja, crédito, puntos, fiscal).
//   - Queued: la venta quedó en la cola local (offline o falla del header).
//   - Rejected: la validación bloqueó la venta antes de cualquier escritura.
type CommitOutcome struct {
	Code         OutcomeCode
	SaleID       uuid.UUID
	RejectReason error
	Warnings     []string
	Receipt      *Receipt
}

// Committed indica si la venta quedó confirmada en el almacén remoto.
func (o *CommitOutcome) Committed() bool {
	return o.Code == OutcomeCommitted
}
