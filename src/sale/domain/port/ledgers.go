package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv/src/sale/domain/entity"
)

// CreditLedger es el libro append-only de crédito de tienda (crediario).
// La implementación calcula balance_before/after bajo lock de fila para que
// los snapshots sean consistentes entre terminales concurrentes.
type CreditLedger interface {
	// Balance retorna el saldo adeudado actual del cliente.
	Balance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)

	// CreditLimit retorna el límite de crédito del cliente.
	CreditLimit(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)

	// Append agrega un asiento debit/credit y retorna la entrada con los
	// balances tomados dentro de la misma transacción.
	Append(ctx context.Context, customerID uuid.UUID, kind entity.CreditEntryKind, amount decimal.Decimal, saleID *uuid.UUID, description string) (*entity.CreditLedgerEntry, error)
}

// LoyaltyLedger es el libro append-only de puntos de fidelidad.
type LoyaltyLedger interface {
	// Balance retorna el saldo de puntos actual del cliente.
	Balance(ctx context.Context, customerID uuid.UUID) (int64, error)

	// Append agrega un asiento. Un canje (redemption) que excede el balance
	// se recorta al disponible: el balance nunca queda negativo. Para
	// adjustment los puntos llevan signo. Retorna la entrada con los puntos
	// efectivamente aplicados.
	Append(ctx context.Context, customerID uuid.UUID, kind entity.LoyaltyEntryKind, points int64, saleID *uuid.UUID) (*entity.LoyaltyLedgerEntry, error)

	// EntriesBySale retorna los asientos ligados a una venta, para generar
	// los inversos en una cancelación.
	EntriesBySale(ctx context.Context, saleID uuid.UUID) ([]*entity.LoyaltyLedgerEntry, error)
}
