package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv/src/cashbox/domain/entity"
	"pdv/src/cashbox/domain/port"
)

// CashRegister es el adaptador que el commiter de ventas usa para impactar
// la caja: ingreso por venta al confirmar y egreso de reversa al cancelar.
// Implementa el puerto CashRegister del contexto sale.
type CashRegister struct {
	repo port.CashSessionRepository
}

// NewCashRegister crea una nueva instancia del adaptador.
func NewCashRegister(repo port.CashSessionRepository) *CashRegister {
	return &CashRegister{repo: repo}
}

// HasOpenSession indica si hay un turno de caja abierto.
func (r *CashRegister) HasOpenSession(ctx context.Context) (bool, error) {
	_, err := r.repo.FindOpen(ctx)
	if errors.Is(err, entity.ErrNoOpenSession) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordSaleInflow registra el ingreso en efectivo de una venta sobre la
// sesión abierta.
func (r *CashRegister) RecordSaleInflow(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal) error {
	return r.append(ctx, entity.MovementSaleInflow, saleID, amount, fmt.Sprintf("venta %s", saleID))
}

// RecordReversal registra el egreso que compensa el ingreso de una venta
// cancelada. Es un asiento aditivo: el ingreso original queda intacto.
func (r *CashRegister) RecordReversal(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal, description string) error {
	return r.append(ctx, entity.MovementManualOutflow, saleID, amount, description)
}

func (r *CashRegister) append(ctx context.Context, kind entity.CashMovementKind, saleID uuid.UUID, amount decimal.Decimal, description string) error {
	session, err := r.repo.FindOpen(ctx)
	if err != nil {
		return err
	}

	ref := saleID
	movement, err := entity.NewCashMovement(session.ID, kind, amount, description, &ref)
	if err != nil {
		return err
	}

	if err := r.repo.AppendMovement(ctx, movement); err != nil {
		return fmt.Errorf("error appending cash movement: %w", err)
	}
	return nil
}
