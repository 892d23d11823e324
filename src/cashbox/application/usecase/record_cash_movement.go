package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pdv/src/cashbox/domain/entity"
	"pdv/src/cashbox/domain/port"
)

// RecordCashMovementUseCase registra sangrías y suprimentos sobre la sesión
// abierta.
type RecordCashMovementUseCase struct {
	repo port.CashSessionRepository
}

// NewRecordCashMovementUseCase crea una nueva instancia del caso de uso.
func NewRecordCashMovementUseCase(repo port.CashSessionRepository) *RecordCashMovementUseCase {
	return &RecordCashMovementUseCase{repo: repo}
}

// Execute agrega un movimiento manual. Se rechaza si no hay sesión abierta:
// un movimiento solo es válido dentro de su sesión.
func (uc *RecordCashMovementUseCase) Execute(ctx context.Context, kind entity.CashMovementKind, amount decimal.Decimal, description string) (*entity.CashMovement, error) {
	session, err := uc.repo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	movement, err := entity.NewCashMovement(session.ID, kind, amount, description, nil)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.AppendMovement(ctx, movement); err != nil {
		return nil, fmt.Errorf("error recording cash movement: %w", err)
	}
	return movement, nil
}
