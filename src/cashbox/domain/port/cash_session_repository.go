package port

import (
	"context"

	"github.com/google/uuid"

	"pdv/src/cashbox/domain/entity"
)

// CashSessionRepository define el contrato de persistencia del libro de
// caja. Los movimientos son append-only; las sesiones solo transicionan
// open → closed.
type CashSessionRepository interface {
	// OpenSession persiste una sesión recién abierta.
	OpenSession(ctx context.Context, session *entity.CashSession) error

	// FindOpen retorna la sesión abierta, o entity.ErrNoOpenSession si no
	// hay ninguna.
	FindOpen(ctx context.Context) (*entity.CashSession, error)

	// AppendMovement agrega un movimiento al libro.
	AppendMovement(ctx context.Context, movement *entity.CashMovement) error

	// MovementsBySession retorna los movimientos de una sesión en orden de
	// inserción.
	MovementsBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CashMovement, error)

	// CloseSession persiste el cierre (arqueo, esperado, diferencia).
	CloseSession(ctx context.Context, session *entity.CashSession) error
}
