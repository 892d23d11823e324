package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"pdv/src/cashbox/domain/entity"
	"pdv/src/cashbox/domain/port"
)

// CloseCashSessionUseCase cierra el turno de caja con el arqueo.
type CloseCashSessionUseCase struct {
	repo port.CashSessionRepository
}

// NewCloseCashSessionUseCase crea una nueva instancia del caso de uso.
func NewCloseCashSessionUseCase(repo port.CashSessionRepository) *CloseCashSessionUseCase {
	return &CloseCashSessionUseCase{repo: repo}
}

// Execute cierra la sesión abierta con el monto contado. El cierre nunca se
// bloquea por diferencia de arqueo: la diferencia queda registrada para el
// back-office.
func (uc *CloseCashSessionUseCase) Execute(ctx context.Context, countedAmount decimal.Decimal) (*entity.CashSession, error) {
	session, err := uc.repo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	movements, err := uc.repo.MovementsBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading session movements: %w", err)
	}

	if err := session.Close(countedAmount, movements); err != nil {
		return nil, err
	}

	if err := uc.repo.CloseSession(ctx, session); err != nil {
		return nil, fmt.Errorf("error closing cash session: %w", err)
	}

	log.Printf("💵 Caja cerrada: session=%s, esperado=%s, contado=%s, diferencia=%s",
		session.ID, session.ExpectedAmount, session.CountedAmount, session.Difference)
	return session, nil
}
