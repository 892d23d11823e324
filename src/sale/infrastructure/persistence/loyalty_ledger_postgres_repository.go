package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pdv/src/sale/domain/entity"
	"pdv/src/sale/domain/port"
)

// LoyaltyLedgerPostgresRepository implementa LoyaltyLedger sobre PostgreSQL.
// Mismo esquema que el crediario: saldo en customer_loyalty, asientos en
// loyalty_ledger_entries, append bajo lock de fila. El saldo de puntos
// nunca queda negativo: canjes y ajustes se recortan al disponible.
type LoyaltyLedgerPostgresRepository struct {
	db *sql.DB
}

// NewLoyaltyLedgerPostgresRepository crea una nueva instancia del repositorio.
func NewLoyaltyLedgerPostgresRepository(db *sql.DB) port.LoyaltyLedger {
	return &LoyaltyLedgerPostgresRepository{db: db}
}

// Balance retorna el saldo de puntos actual del cliente.
func (r *LoyaltyLedgerPostgresRepository) Balance(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx,
		`SELECT points_balance FROM customer_loyalty WHERE customer_id = $1`, customerID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading loyalty balance: %w", err)
	}
	return balance, nil
}

// Append asienta un movimiento de puntos con los balances bajo lock.
// Redemption recorta los puntos al saldo; adjustment lleva signo y también
// recorta para no dejar saldo negativo. Retorna la entrada con los puntos
// efectivamente aplicados.
func (r *LoyaltyLedgerPostgresRepository) Append(ctx context.Context, customerID uuid.UUID, kind entity.LoyaltyEntryKind, points int64, saleID *uuid.UUID) (*entity.LoyaltyLedgerEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var before int64
	err = tx.QueryRowContext(ctx,
		`SELECT points_balance FROM customer_loyalty WHERE customer_id = $1 FOR UPDATE`, customerID,
	).Scan(&before)
	if err == sql.ErrNoRows {
		before = 0
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customer_loyalty (customer_id, points_balance) VALUES ($1, 0)`, customerID,
		); err != nil {
			return nil, fmt.Errorf("error initializing customer loyalty row: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("error locking loyalty balance: %w", err)
	}

	applied := points
	var after int64
	switch kind {
	case entity.LoyaltyEntryAccrual:
		after = before + applied
	case entity.LoyaltyEntryRedemption, entity.LoyaltyEntryExpiration:
		if applied > before {
			applied = before // clamp: el saldo nunca queda negativo
		}
		after = before - applied
	case entity.LoyaltyEntryAdjustment:
		if before+applied < 0 {
			applied = -before
		}
		after = before + applied
	default:
		return nil, fmt.Errorf("unknown loyalty entry kind: %s", kind)
	}

	entry := &entity.LoyaltyLedgerEntry{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Kind:          kind,
		Points:        applied,
		BalanceBefore: before,
		BalanceAfter:  after,
		SaleID:        saleID,
		CreatedAt:     time.Now(),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO loyalty_ledger_entries (
			id, customer_id, kind, points,
			balance_before, balance_after, expires_at, sale_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.CustomerID, entry.Kind, entry.Points,
		entry.BalanceBefore, entry.BalanceAfter, entry.ExpiresAt, entry.SaleID, entry.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("error inserting loyalty ledger entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE customer_loyalty SET points_balance = $2 WHERE customer_id = $1`, customerID, after,
	); err != nil {
		return nil, fmt.Errorf("error updating loyalty balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}
	return entry, nil
}

// EntriesBySale retorna los asientos ligados a una venta.
func (r *LoyaltyLedgerPostgresRepository) EntriesBySale(ctx context.Context, saleID uuid.UUID) ([]*entity.LoyaltyLedgerEntry, error) {
	query := `
		SELECT id, customer_id, kind, points,
		       balance_before, balance_after, expires_at, sale_id, created_at
		FROM loyalty_ledger_entries
		WHERE sale_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("error querying loyalty entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.LoyaltyLedgerEntry
	for rows.Next() {
		e := &entity.LoyaltyLedgerEntry{}
		err := rows.Scan(
			&e.ID, &e.CustomerID, &e.Kind, &e.Points,
			&e.BalanceBefore, &e.BalanceAfter, &e.ExpiresAt, &e.SaleID, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning loyalty entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loyalty entries: %w", err)
	}
	return entries, nil
}
