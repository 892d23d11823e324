package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv/src/sale/domain/entity"
	"pdv/src/sale/domain/port"
	"pdv/src/shared/infrastructure/metrics"
)

// minCancelReasonLen es el largo mínimo del motivo de cancelación.
const minCancelReasonLen = 10

// CancelResult es el resultado de una cancelación. Warnings acumula los
// pasos de compensación que fallaron; se loguean y no detienen al resto
// para maximizar la recuperación parcial.
type CancelResult struct {
	SaleID   uuid.UUID `json:"sale_id"`
	Warnings []string  `json:"warnings,omitempty"`
}

// CancelSaleUseCase revierte una venta confirmada. Es una transacción
// compensatoria, NO un rollback: los asientos ya aplicados quedan intactos
// y la reversa es aditiva (asientos inversos, movimientos de egreso,
// restitución de stock), preservando la pista de auditoría.
type CancelSaleUseCase struct {
	saleRepo      port.SaleRepository
	cashRegister  port.CashRegister
	creditLedger  port.CreditLedger
	loyaltyLedger port.LoyaltyLedger
	stockGateway  port.StockGateway
}

// NewCancelSaleUseCase crea una nueva instancia del caso de uso.
func NewCancelSaleUseCase(
	saleRepo port.SaleRepository,
	cashRegister port.CashRegister,
	creditLedger port.CreditLedger,
	loyaltyLedger port.LoyaltyLedger,
	stockGateway port.StockGateway,
) *CancelSaleUseCase {
	return &CancelSaleUseCase{
		saleRepo:      saleRepo,
		cashRegister:  cashRegister,
		creditLedger:  creditLedger,
		loyaltyLedger: loyaltyLedger,
		stockGateway:  stockGateway,
	}
}

// Execute cancela la venta. Precondiciones: header FINALIZED, sin
// comprobante fiscal emitido (esos se cancelan por el flujo propio de la
// autoridad fiscal) y motivo con largo mínimo. Los pasos de compensación
// son independientes y continúan ante error.
func (uc *CancelSaleUseCase) Execute(ctx context.Context, saleID uuid.UUID, reason string) (*CancelResult, error) {
	// 1. Cargar aggregate y validar precondiciones.
	sale, err := uc.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, entity.ErrSaleNotFound
	}
	if sale.Status != entity.SaleStatusFinalized {
		return nil, entity.ErrSaleNotFinalized
	}
	if sale.HasFiscalDocument() {
		return nil, entity.ErrSaleHasFiscalDocument
	}
	if len(strings.TrimSpace(reason)) < minCancelReasonLen {
		return nil, entity.ErrCancelReasonTooShort
	}

	log.Printf("🔄 Cancelando venta %s: %s", saleID, reason)

	result := &CancelResult{SaleID: saleID}
	warn := func(step, format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		metrics.SideEffectFailures.WithLabelValues(step).Inc()
		log.Printf("⚠️  [cancel/%s] %s", step, msg)
		result.Warnings = append(result.Warnings, msg)
	}

	// 2. Restituir stock por cada línea.
	if uc.stockGateway != nil {
		for _, item := range sale.Items {
			ref := fmt.Sprintf("CANCEL-%s", saleID)
			if err := uc.stockGateway.RestoreStock(ctx, item.SKU, item.Quantity, ref); err != nil {
				warn("stock", "error restoring stock for SKU %s: %v", item.SKU, err)
			}
		}
	}

	// 3. Egreso de caja que compensa el ingreso original en efectivo.
	cash := sale.CashAllocated()
	if cash.GreaterThan(decimal.Zero) && uc.cashRegister != nil {
		if err := uc.cashRegister.RecordReversal(ctx, saleID, cash, "reversal"); err != nil {
			warn("cash", "error recording reversal movement: %v", err)
		}
	}

	// 4. Asiento de crédito que revierte el débito de crediario.
	storeCredit := sale.StoreCreditAllocated()
	if storeCredit.GreaterThan(decimal.Zero) && uc.creditLedger != nil && sale.CustomerID != nil {
		saleRef := saleID
		if _, err := uc.creditLedger.Append(ctx, *sale.CustomerID, entity.CreditEntryCredit, storeCredit, &saleRef, "reversa por cancelación"); err != nil {
			warn("credit", "error appending credit reversal: %v", err)
		}
	}

	// 5. Asientos inversos de puntos: la acumulación se descuenta y el
	// canje se devuelve. Nunca se borra un asiento.
	if uc.loyaltyLedger != nil && sale.CustomerID != nil {
		uc.reverseLoyalty(ctx, sale, warn)
	}

	// 6. Marcar el header como cancelado con motivo y timestamp.
	if err := uc.saleRepo.MarkCancelled(ctx, saleID, reason, time.Now()); err != nil {
		return result, fmt.Errorf("error marking sale cancelled: %w", err)
	}

	metrics.SalesCancelled.Inc()
	log.Printf("✅ Venta cancelada: id=%s, warnings=%d", saleID, len(result.Warnings))
	return result, nil
}

// reverseLoyalty genera los ajustes inversos de los asientos de puntos
// ligados a la venta: −puntos para la acumulación, +puntos para el canje.
func (uc *CancelSaleUseCase) reverseLoyalty(ctx context.Context, sale *entity.Sale, warn func(step, format string, args ...interface{})) {
	entries, err := uc.loyaltyLedger.EntriesBySale(ctx, sale.ID)
	if err != nil {
		warn("loyalty", "error loading loyalty entries for sale: %v", err)
		return
	}

	for _, e := range entries {
		var inverse int64
		switch e.Kind {
		case entity.LoyaltyEntryAccrual:
			inverse = -e.Points
		case entity.LoyaltyEntryRedemption:
			inverse = e.Points
		default:
			continue // los ajustes previos no se re-revierten
		}

		saleRef := sale.ID
		if _, err := uc.loyaltyLedger.Append(ctx, e.CustomerID, entity.LoyaltyEntryAdjustment, inverse, &saleRef); err != nil {
			warn("loyalty", "error appending loyalty adjustment (%d pts): %v", inverse, err)
		}
	}
}
