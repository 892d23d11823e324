package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashMovementKind es el tipo de movimiento de caja.
// sale_inflow: ingreso por venta (solo la porción en efectivo).
// manual_inflow: suprimento / ingreso manual.
// manual_outflow: sangría / egreso manual (incluye reversas de cancelación).
type CashMovementKind string

const (
	MovementSaleInflow    CashMovementKind = "sale_inflow"
	MovementManualInflow  CashMovementKind = "manual_inflow"
	MovementManualOutflow CashMovementKind = "manual_outflow"
)

// Valid indica si el tipo de movimiento es conocido.
func (k CashMovementKind) Valid() bool {
	switch k {
	case MovementSaleInflow, MovementManualInflow, MovementManualOutflow:
		return true
	}
	return false
}

// CashMovement es un evento inmutable del libro de caja. Solo es válido
// mientras su sesión está abierta; nunca se modifica ni se borra — las
// cancelaciones generan movimientos inversos.
type CashMovement struct {
	ID          uuid.UUID        `json:"id"`
	SessionID   uuid.UUID        `json:"session_id"`
	Kind        CashMovementKind `json:"kind"`
	Amount      decimal.Decimal  `json:"amount"`
	Description string           `json:"description"`
	SaleID      *uuid.UUID       `json:"sale_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewCashMovement crea un movimiento de caja validado.
func NewCashMovement(sessionID uuid.UUID, kind CashMovementKind, amount decimal.Decimal, description string, saleID *uuid.UUID) (*CashMovement, error) {
	if !kind.Valid() {
		return nil, ErrInvalidMovementKind
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidMovementAmount
	}
	if description == "" {
		return nil, ErrMovementDescRequired
	}

	return &CashMovement{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		SaleID:      saleID,
		CreatedAt:   time.Now(),
	}, nil
}
