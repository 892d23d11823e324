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

// SalePostgresRepository implementa SaleRepository usando PostgreSQL.
// Sin lógica de negocio, solo insert/select/update. Las operaciones son
// escrituras independientes a propósito: el commit es una saga, no una
// transacción multi-entidad.
type SalePostgresRepository struct {
	db *sql.DB
}

// NewSalePostgresRepository crea una nueva instancia del repositorio.
func NewSalePostgresRepository(db *sql.DB) port.SaleRepository {
	return &SalePostgresRepository{db: db}
}

// CreateHeader inserta el header. ON CONFLICT DO NOTHING hace que el ID
// generado por la terminal funcione como clave de idempotencia: sincronizar
// dos veces la misma venta no duplica.
func (r *SalePostgresRepository) CreateHeader(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (
			id, customer_id, status,
			subtotal_amount, discount_amount,
			loyalty_points_redeemed, loyalty_redemption_value,
			total_amount, amount_received, change,
			currency, operator_name, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		sale.ID,
		sale.CustomerID, // NULL permitido
		sale.Status,
		sale.SubtotalAmount,
		sale.DiscountAmount,
		sale.LoyaltyPointsRedeemed,
		sale.LoyaltyRedemptionValue,
		sale.TotalAmount,
		sale.AmountReceived,
		sale.Change,
		sale.Currency,
		sale.OperatorName,
		sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating sale header: %w", err)
	}
	return nil
}

// Exists indica si el header ya está persistido.
func (r *SalePostgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sales WHERE id = $1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking sale existence: %w", err)
	}
	return true, nil
}

// AddItems persiste las líneas en una transacción propia.
func (r *SalePostgresRepository) AddItems(ctx context.Context, saleID uuid.UUID, items []entity.SaleItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sale_items (
			id, sale_id, sku, product_name,
			quantity, unit_price, discount_amount, subtotal, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW()
		)
		ON CONFLICT (id) DO NOTHING
	`

	for _, item := range items {
		_, err = tx.ExecContext(ctx, query,
			item.ID,
			saleID,
			item.SKU,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.DiscountAmount,
			item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("error creating sale_item for SKU %s: %w", item.SKU, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// AddAllocations persiste las asignaciones de pago.
func (r *SalePostgresRepository) AddAllocations(ctx context.Context, saleID uuid.UUID, allocations []entity.PaymentAllocation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Re-sincronizar no duplica: las asignaciones previas de la venta se
	// reemplazan completas.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_payments WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("error clearing previous allocations: %w", err)
	}

	query := `
		INSERT INTO sale_payments (id, sale_id, method, amount, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	for _, a := range allocations {
		if _, err := tx.ExecContext(ctx, query, uuid.New(), saleID, a.Method, a.Amount); err != nil {
			return fmt.Errorf("error creating sale_payment (%s): %w", a.Method, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// SetFiscalDocument registra la clave de acceso del comprobante emitido.
func (r *SalePostgresRepository) SetFiscalDocument(ctx context.Context, saleID uuid.UUID, accessKey, protocol string) error {
	query := `
		UPDATE sales
		SET fiscal_access_key = $2, fiscal_protocol = $3
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, saleID, accessKey, protocol); err != nil {
		return fmt.Errorf("error saving fiscal document: %w", err)
	}
	return nil
}

// FindByID carga el aggregate completo (header + items + pagos).
func (r *SalePostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	query := `
		SELECT
			id, customer_id, status,
			subtotal_amount, discount_amount,
			loyalty_points_redeemed, loyalty_redemption_value,
			total_amount, amount_received, change,
			currency, operator_name,
			fiscal_access_key, fiscal_protocol,
			cancel_reason, cancelled_at, created_at
		FROM sales
		WHERE id = $1
	`

	sale := &entity.Sale{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID,
		&sale.CustomerID,
		&sale.Status,
		&sale.SubtotalAmount,
		&sale.DiscountAmount,
		&sale.LoyaltyPointsRedeemed,
		&sale.LoyaltyRedemptionValue,
		&sale.TotalAmount,
		&sale.AmountReceived,
		&sale.Change,
		&sale.Currency,
		&sale.OperatorName,
		&sale.FiscalAccessKey,
		&sale.FiscalProtocol,
		&sale.CancelReason,
		&sale.CancelledAt,
		&sale.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning sale: %w", err)
	}

	items, err := r.itemsBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Items = items

	allocations, err := r.allocationsBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Allocations = allocations

	return sale, nil
}

func (r *SalePostgresRepository) itemsBySale(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, sku, product_name, quantity, unit_price, discount_amount, subtotal
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("error querying sale_items: %w", err)
	}
	defer rows.Close()

	var items []entity.SaleItem
	for rows.Next() {
		item := entity.SaleItem{}
		err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.SKU,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.DiscountAmount,
			&item.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning sale_item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale_items: %w", err)
	}
	return items, nil
}

func (r *SalePostgresRepository) allocationsBySale(ctx context.Context, saleID uuid.UUID) ([]entity.PaymentAllocation, error) {
	query := `
		SELECT method, amount
		FROM sale_payments
		WHERE sale_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("error querying sale_payments: %w", err)
	}
	defer rows.Close()

	var allocations []entity.PaymentAllocation
	for rows.Next() {
		a := entity.PaymentAllocation{}
		if err := rows.Scan(&a.Method, &a.Amount); err != nil {
			return nil, fmt.Errorf("error scanning sale_payment: %w", err)
		}
		allocations = append(allocations, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale_payments: %w", err)
	}
	return allocations, nil
}

// MarkCancelled pasa el header a CANCELLED. El WHERE por estado evita
// cancelar dos veces bajo carrera entre terminales.
func (r *SalePostgresRepository) MarkCancelled(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	query := `
		UPDATE sales
		SET status = $2, cancel_reason = $3, cancelled_at = $4
		WHERE id = $1 AND status = $5
	`

	res, err := r.db.ExecContext(ctx, query, id, entity.SaleStatusCancelled, reason, at, entity.SaleStatusFinalized)
	if err != nil {
		return fmt.Errorf("error cancelling sale: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading cancel result: %w", err)
	}
	if affected == 0 {
		return entity.ErrSaleNotFinalized
	}
	return nil
}
