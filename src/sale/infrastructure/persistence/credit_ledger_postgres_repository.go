package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv/src/sale/domain/entity"
	"pdv/src/sale/domain/port"
)

// CreditLedgerPostgresRepository implementa CreditLedger sobre PostgreSQL.
// El saldo vive en customer_credit y cada asiento en credit_ledger_entries.
// El append toma lock de fila (SELECT ... FOR UPDATE) para que los
// snapshots balance_before/after sean consistentes entre terminales que
// venden al mismo cliente a la vez.
type CreditLedgerPostgresRepository struct {
	db *sql.DB
}

// NewCreditLedgerPostgresRepository crea una nueva instancia del repositorio.
func NewCreditLedgerPostgresRepository(db *sql.DB) port.CreditLedger {
	return &CreditLedgerPostgresRepository{db: db}
}

// Balance retorna el saldo adeudado actual del cliente.
func (r *CreditLedgerPostgresRepository) Balance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT balance FROM customer_credit WHERE customer_id = $1`, customerID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("error reading credit balance: %w", err)
	}
	return balance, nil
}

// CreditLimit retorna el límite de crédito configurado para el cliente.
func (r *CreditLedgerPostgresRepository) CreditLimit(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var limit decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT credit_limit FROM customer_credit WHERE customer_id = $1`, customerID,
	).Scan(&limit)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("error reading credit limit: %w", err)
	}
	return limit, nil
}

// Append asienta un debit/credit con los balances tomados bajo lock.
func (r *CreditLedgerPostgresRepository) Append(ctx context.Context, customerID uuid.UUID, kind entity.CreditEntryKind, amount decimal.Decimal, saleID *uuid.UUID, description string) (*entity.CreditLedgerEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var before decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM customer_credit WHERE customer_id = $1 FOR UPDATE`, customerID,
	).Scan(&before)
	if err == sql.ErrNoRows {
		// Primera operación del cliente: fila de saldo en cero.
		before = decimal.Zero
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customer_credit (customer_id, credit_limit, balance) VALUES ($1, 0, 0)`, customerID,
		); err != nil {
			return nil, fmt.Errorf("error initializing customer credit row: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("error locking credit balance: %w", err)
	}

	after := before
	switch kind {
	case entity.CreditEntryDebit:
		after = before.Add(amount)
	case entity.CreditEntryCredit:
		after = before.Sub(amount)
	default:
		return nil, fmt.Errorf("unknown credit entry kind: %s", kind)
	}

	entry := &entity.CreditLedgerEntry{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Kind:          kind,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		SaleID:        saleID,
		Description:   description,
		CreatedAt:     time.Now(),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO credit_ledger_entries (
			id, customer_id, kind, amount,
			balance_before, balance_after, sale_id, description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.CustomerID, entry.Kind, entry.Amount,
		entry.BalanceBefore, entry.BalanceAfter, entry.SaleID, entry.Description, entry.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("error inserting credit ledger entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE customer_credit SET balance = $2 WHERE customer_id = $1`, customerID, after,
	); err != nil {
		return nil, fmt.Errorf("error updating credit balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}
	return entry, nil
}
