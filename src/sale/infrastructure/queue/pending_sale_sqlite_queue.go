package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"pdv/src/sale/domain/entity"
)

// PendingSaleSQLiteQueue es la cola local durable de ventas diferidas,
// respaldada por un archivo SQLite que sobrevive reinicios de la terminal.
// El orden FIFO lo da el rowid de inserción.
type PendingSaleSQLiteQueue struct {
	db *sql.DB
}

// Open abre (o crea) el archivo de cola y corre la migración.
func Open(path string) (*PendingSaleSQLiteQueue, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening local queue: %w", err)
	}
	return NewPendingSaleSQLiteQueue(db)
}

// NewPendingSaleSQLiteQueue arma la cola sobre una conexión existente.
func NewPendingSaleSQLiteQueue(db *sql.DB) (*PendingSaleSQLiteQueue, error) {
	q := &PendingSaleSQLiteQueue{db: db}
	if err := q.migrate(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *PendingSaleSQLiteQueue) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS pending_sales (
		id TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL
	);`
	if _, err := q.db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("error migrating local queue: %w", err)
	}
	return nil
}

// Enqueue persiste la venta diferida. INSERT OR IGNORE: encolar dos veces
// el mismo ID no duplica la entrada.
func (q *PendingSaleSQLiteQueue) Enqueue(ctx context.Context, pending *entity.PendingSale) error {
	query := `INSERT OR IGNORE INTO pending_sales (id, payload, status, created_at) VALUES (?, ?, ?, ?)`

	createdAt := pending.CreatedAt.UTC().Format(time.RFC3339Nano)
	if _, err := q.db.ExecContext(ctx, query, pending.ID.String(), string(pending.Payload), string(pending.Status), createdAt); err != nil {
		return fmt.Errorf("error enqueuing pending sale: %w", err)
	}
	return nil
}

// DequeueAll retorna las entradas pendientes en orden FIFO de inserción.
func (q *PendingSaleSQLiteQueue) DequeueAll(ctx context.Context) ([]*entity.PendingSale, error) {
	query := `
		SELECT id, payload, status, created_at
		FROM pending_sales
		WHERE status = 'pending'
		ORDER BY rowid
	`

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying pending sales: %w", err)
	}
	defer rows.Close()

	var pendings []*entity.PendingSale
	for rows.Next() {
		var (
			rawID, payload, status, createdAt string
		)
		if err := rows.Scan(&rawID, &payload, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("error scanning pending sale: %w", err)
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("invalid pending sale id %q: %w", rawID, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid pending sale timestamp %q: %w", createdAt, err)
		}

		pendings = append(pendings, &entity.PendingSale{
			ID:        id,
			Payload:   []byte(payload),
			Status:    entity.PendingSaleStatus(status),
			CreatedAt: ts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending sales: %w", err)
	}
	return pendings, nil
}

// MarkSynced elimina la entrada: la venta ya está confirmada remota y el
// snapshot local deja de existir.
func (q *PendingSaleSQLiteQueue) MarkSynced(ctx context.Context, id uuid.UUID) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM pending_sales WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("error removing synced sale: %w", err)
	}
	return nil
}

// Count retorna la cantidad de entradas pendientes.
func (q *PendingSaleSQLiteQueue) Count(ctx context.Context) (int, error) {
	var count int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_sales WHERE status = 'pending'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting pending sales: %w", err)
	}
	return count, nil
}

// Close cierra el archivo de cola.
func (q *PendingSaleSQLiteQueue) Close() error {
	return q.db.Close()
}
