package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashSessionStatus es el estado del turno de caja.
type CashSessionStatus string

const (
	SessionStatusOpen   CashSessionStatus = "open"
	SessionStatusClosed CashSessionStatus = "closed"
)

// CashSession representa el ciclo de vida de un turno de caja: se abre con
// un fondo inicial, acumula movimientos y se cierra con el arqueo. Una
// sesión cerrada nunca se reabre. La sesión pertenece a una terminal/cajón;
// no hay lock distribuido entre terminales (una terminal por cajón).
type CashSession struct {
	ID             uuid.UUID        `json:"id"`
	OpenedAt       time.Time        `json:"opened_at"`
	OpeningFloat   decimal.Decimal  `json:"opening_float"`
	Status         CashSessionStatus `json:"status"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
	CountedAmount  *decimal.Decimal `json:"counted_amount,omitempty"`
	ExpectedAmount *decimal.Decimal `json:"expected_amount,omitempty"`
	Difference     *decimal.Decimal `json:"difference,omitempty"`
}

// NewCashSession abre un turno de caja con el fondo inicial.
func NewCashSession(openingFloat decimal.Decimal) (*CashSession, error) {
	if openingFloat.LessThan(decimal.Zero) {
		return nil, ErrInvalidOpeningFloat
	}

	return &CashSession{
		ID:           uuid.New(),
		OpenedAt:     time.Now(),
		OpeningFloat: openingFloat,
		Status:       SessionStatusOpen,
	}, nil
}

// IsOpen indica si la sesión sigue abierta.
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// ExpectedBalance calcula el efectivo esperado en el cajón:
// fondo inicial + Σ ingresos por venta + Σ ingresos manuales − Σ egresos.
func (s *CashSession) ExpectedBalance(movements []CashMovement) decimal.Decimal {
	expected := s.OpeningFloat
	for i := range movements {
		switch movements[i].Kind {
		case MovementSaleInflow, MovementManualInflow:
			expected = expected.Add(movements[i].Amount)
		case MovementManualOutflow:
			expected = expected.Sub(movements[i].Amount)
		}
	}
	return expected
}

// Close cierra el turno con el monto contado. El cierre siempre procede:
// la diferencia (contado − esperado) es informativa, nunca bloquea.
func (s *CashSession) Close(countedAmount decimal.Decimal, movements []CashMovement) error {
	if !s.IsOpen() {
		return ErrSessionNotOpen
	}

	expected := s.ExpectedBalance(movements)
	difference := countedAmount.Sub(expected)
	now := time.Now()

	s.Status = SessionStatusClosed
	s.ClosedAt = &now
	s.CountedAmount = &countedAmount
	s.ExpectedAmount = &expected
	s.Difference = &difference
	return nil
}
