package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditEntryKind es el signo contable de un movimiento de crediario.
type CreditEntryKind string

const (
	CreditEntryDebit  CreditEntryKind = "debit"  // el cliente debe más
	CreditEntryCredit CreditEntryKind = "credit" // el cliente debe menos
)

// CreditLedgerEntry es un asiento del libro de crédito de tienda.
// Append-only: las cancelaciones generan asientos inversos, nunca borran.
type CreditLedgerEntry struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Kind          CreditEntryKind `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	SaleID        *uuid.UUID      `json:"sale_id,omitempty"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LoyaltyEntryKind es el tipo de movimiento del libro de puntos.
type LoyaltyEntryKind string

const (
	LoyaltyEntryAccrual    LoyaltyEntryKind = "accrual"
	LoyaltyEntryRedemption LoyaltyEntryKind = "redemption"
	LoyaltyEntryAdjustment LoyaltyEntryKind = "adjustment"
	LoyaltyEntryExpiration LoyaltyEntryKind = "expiration"
)

// LoyaltyLedgerEntry es un asiento del libro de puntos de fidelidad.
// El balance del cliente nunca queda negativo: los canjes se recortan al
// balance disponible.
type LoyaltyLedgerEntry struct {
	ID            uuid.UUID        `json:"id"`
	CustomerID    uuid.UUID        `json:"customer_id"`
	Kind          LoyaltyEntryKind `json:"kind"`
	Points        int64            `json:"points"` // con signo para adjustment
	BalanceBefore int64            `json:"balance_before"`
	BalanceAfter  int64            `json:"balance_after"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
	SaleID        *uuid.UUID       `json:"sale_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
