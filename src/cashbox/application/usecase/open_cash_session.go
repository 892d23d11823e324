package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"pdv/src/cashbox/domain/entity"
	"pdv/src/cashbox/domain/port"
)

// OpenCashSessionUseCase abre el turno de caja de la terminal.
type OpenCashSessionUseCase struct {
	repo port.CashSessionRepository
}

// NewOpenCashSessionUseCase crea una nueva instancia del caso de uso.
func NewOpenCashSessionUseCase(repo port.CashSessionRepository) *OpenCashSessionUseCase {
	return &OpenCashSessionUseCase{repo: repo}
}

// Execute abre una sesión con el fondo inicial. Se rechaza si ya hay una
// sesión abierta: concurrencia entre aperturas en la misma terminal no está
// permitida.
func (uc *OpenCashSessionUseCase) Execute(ctx context.Context, openingFloat decimal.Decimal) (*entity.CashSession, error) {
	existing, err := uc.repo.FindOpen(ctx)
	if err != nil && !errors.Is(err, entity.ErrNoOpenSession) {
		return nil, fmt.Errorf("error checking open session: %w", err)
	}
	if existing != nil {
		return nil, entity.ErrSessionAlreadyOpen
	}

	session, err := entity.NewCashSession(openingFloat)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.OpenSession(ctx, session); err != nil {
		return nil, fmt.Errorf("error opening cash session: %w", err)
	}

	log.Printf("💵 Caja abierta: session=%s, fondo=%s", session.ID, session.OpeningFloat)
	return session, nil
}
