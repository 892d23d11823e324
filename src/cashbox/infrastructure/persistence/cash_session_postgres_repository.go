package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pdv/src/cashbox/domain/entity"
	"pdv/src/cashbox/domain/port"
)

// CashSessionPostgresRepository implementa CashSessionRepository usando
// PostgreSQL. Movimientos append-only; sesiones solo open → closed.
type CashSessionPostgresRepository struct {
	db *sql.DB
}

// NewCashSessionPostgresRepository crea una nueva instancia del repositorio.
func NewCashSessionPostgresRepository(db *sql.DB) port.CashSessionRepository {
	return &CashSessionPostgresRepository{db: db}
}

// OpenSession persiste una sesión recién abierta.
func (r *CashSessionPostgresRepository) OpenSession(ctx context.Context, session *entity.CashSession) error {
	query := `
		INSERT INTO cash_sessions (id, opened_at, opening_float, status)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, session.ID, session.OpenedAt, session.OpeningFloat, session.Status); err != nil {
		return fmt.Errorf("error opening cash session: %w", err)
	}
	return nil
}

// FindOpen retorna la sesión abierta de la terminal. La sesión es por
// terminal/cajón; no hay lock distribuido entre terminales.
func (r *CashSessionPostgresRepository) FindOpen(ctx context.Context) (*entity.CashSession, error) {
	query := `
		SELECT id, opened_at, opening_float, status, closed_at, counted_amount, expected_amount, difference
		FROM cash_sessions
		WHERE status = $1
		ORDER BY opened_at DESC
		LIMIT 1
	`

	session := &entity.CashSession{}
	err := r.db.QueryRowContext(ctx, query, entity.SessionStatusOpen).Scan(
		&session.ID,
		&session.OpenedAt,
		&session.OpeningFloat,
		&session.Status,
		&session.ClosedAt,
		&session.CountedAmount,
		&session.ExpectedAmount,
		&session.Difference,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNoOpenSession
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning cash session: %w", err)
	}
	return session, nil
}

// AppendMovement agrega un movimiento al libro de caja.
func (r *CashSessionPostgresRepository) AppendMovement(ctx context.Context, movement *entity.CashMovement) error {
	query := `
		INSERT INTO cash_movements (id, session_id, kind, amount, description, sale_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		movement.ID,
		movement.SessionID,
		movement.Kind,
		movement.Amount,
		movement.Description,
		movement.SaleID,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error appending cash movement: %w", err)
	}
	return nil
}

// MovementsBySession retorna los movimientos en orden de inserción.
func (r *CashSessionPostgresRepository) MovementsBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CashMovement, error) {
	query := `
		SELECT id, session_id, kind, amount, description, sale_id, created_at
		FROM cash_movements
		WHERE session_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying cash movements: %w", err)
	}
	defer rows.Close()

	var movements []entity.CashMovement
	for rows.Next() {
		m := entity.CashMovement{}
		err := rows.Scan(&m.ID, &m.SessionID, &m.Kind, &m.Amount, &m.Description, &m.SaleID, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning cash movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash movements: %w", err)
	}
	return movements, nil
}

// CloseSession persiste el cierre con arqueo, esperado y diferencia.
func (r *CashSessionPostgresRepository) CloseSession(ctx context.Context, session *entity.CashSession) error {
	query := `
		UPDATE cash_sessions
		SET status = $2, closed_at = $3, counted_amount = $4, expected_amount = $5, difference = $6
		WHERE id = $1 AND status = $7
	`

	res, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.Status,
		session.ClosedAt,
		session.CountedAmount,
		session.ExpectedAmount,
		session.Difference,
		entity.SessionStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("error closing cash session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading close result: %w", err)
	}
	if affected == 0 {
		return entity.ErrSessionNotOpen
	}
	return nil
}
