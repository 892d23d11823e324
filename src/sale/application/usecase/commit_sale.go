package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv/src/sale/application/request"
	"pdv/src/sale/domain/entity"
	"pdv/src/sale/domain/port"
	"pdv/src/shared/infrastructure/metrics"
)

// CommitSaleConfig es la configuración comercial del commiter.
type CommitSaleConfig struct {
	Currency string
	Store    entity.StoreInfo

	// TaxRate es la alícuota estimada para el ticket (ej. 0.21).
	TaxRate decimal.Decimal

	// LoyaltyActive habilita acumulación/canje de puntos.
	LoyaltyActive bool

	// PointsPerCurrencyUnit define la acumulación:
	// puntos = floor(total × PointsPerCurrencyUnit).
	PointsPerCurrencyUnit decimal.Decimal
}

// CommitSaleUseCase orquesta la finalización de una venta: validación,
// commit online o fallback offline, y el fan-out de efectos secundarios
// (caja, crédito, puntos, stock, fiscal).
//
// El commit NO es una transacción ACID multi-entidad: es una secuencia
// ordenada best-effort (saga). Solo la falla del header (paso a) difiere la
// venta completa a la cola local; los pasos siguientes son independientes y
// una falla en uno se loguea y no detiene a los demás.
type CommitSaleUseCase struct {
	saleRepo      port.SaleRepository
	queue         port.PendingSaleQueue
	connectivity  port.ConnectivityMonitor
	cashRegister  port.CashRegister
	creditLedger  port.CreditLedger
	loyaltyLedger port.LoyaltyLedger
	stockGateway  port.StockGateway
	fiscalIssuer  port.FiscalIssuer
	fiscalCodes   port.FiscalCodeResolver
	config        CommitSaleConfig
}

// NewCommitSaleUseCase crea una nueva instancia del caso de uso.
func NewCommitSaleUseCase(
	saleRepo port.SaleRepository,
	queue port.PendingSaleQueue,
	connectivity port.ConnectivityMonitor,
	cashRegister port.CashRegister,
	creditLedger port.CreditLedger,
	loyaltyLedger port.LoyaltyLedger,
	stockGateway port.StockGateway,
	fiscalIssuer port.FiscalIssuer,
	fiscalCodes port.FiscalCodeResolver,
	config CommitSaleConfig,
) *CommitSaleUseCase {
	return &CommitSaleUseCase{
		saleRepo:      saleRepo,
		queue:         queue,
		connectivity:  connectivity,
		cashRegister:  cashRegister,
		creditLedger:  creditLedger,
		loyaltyLedger: loyaltyLedger,
		stockGateway:  stockGateway,
		fiscalIssuer:  fiscalIssuer,
		fiscalCodes:   fiscalCodes,
		config:        config,
	}
}

// Execute finaliza la venta. Retorna un CommitOutcome explícito:
// Committed, Queued o Rejected(motivo). El único error devuelto como error
// es la corrupción de la cola local (QueueCorruptError), que es fatal
// porque la venta se perdería.
//
// La UI deshabilita el re-envío mientras un commit está en vuelo: dentro de
// una terminal hay a lo sumo un commit a la vez.
func (uc *CommitSaleUseCase) Execute(ctx context.Context, req *request.CommitSaleRequest) (*entity.CommitOutcome, error) {
	// ========================================================================
	// PASO 1: VALIDACIÓN (rechaza antes de cualquier escritura)
	// ========================================================================
	if req.SaleID == uuid.Nil {
		req.SaleID = uuid.New()
	}

	online := uc.connectivity.IsOnline() // muestreo único por intento

	sale, err := uc.buildAndValidate(ctx, req, online)
	if err != nil {
		metrics.SalesRejected.Inc()
		log.Printf("❌ Venta rechazada en validación: %v", err)
		return &entity.CommitOutcome{Code: entity.OutcomeRejected, SaleID: req.SaleID, RejectReason: err}, nil
	}

	// ========================================================================
	// PASO 2: OFFLINE → ENCOLAR Y TERMINAR
	// ========================================================================
	if !online {
		return uc.enqueue(ctx, req, sale, "terminal offline")
	}

	// ========================================================================
	// PASO 3: VÍA ONLINE
	// ========================================================================
	return uc.CommitOnline(ctx, req, sale)
}

// CommitOnline corre la vía online completa: header + fan-out de efectos.
// Lo usa Execute y también el sincronizador al drenar la cola (por eso no
// vuelve a muestrear conectividad). sale puede venir nil y se reconstruye
// del request.
func (uc *CommitSaleUseCase) CommitOnline(ctx context.Context, req *request.CommitSaleRequest, sale *entity.Sale) (*entity.CommitOutcome, error) {
	if sale == nil {
		var err error
		sale, err = uc.buildAndValidate(ctx, req, false)
		if err != nil {
			metrics.SalesRejected.Inc()
			return &entity.CommitOutcome{Code: entity.OutcomeRejected, SaleID: req.SaleID, RejectReason: err}, nil
		}
	}

	// Idempotencia: el mismo ID confirmado dos veces no vuelve a impactar
	// stock, puntos ni caja.
	if exists, err := uc.saleRepo.Exists(ctx, sale.ID); err == nil && exists {
		log.Printf("♻️  Venta %s ya confirmada, se omite el re-commit", sale.ID)
		receipt := entity.BuildReceipt(uc.config.Store, sale, uc.config.TaxRate, "")
		return &entity.CommitOutcome{
			Code:     entity.OutcomeCommitted,
			SaleID:   sale.ID,
			Warnings: []string{"venta ya confirmada previamente"},
			Receipt:  receipt,
		}, nil
	}

	// PASO (a): header de venta. Su falla difiere la venta COMPLETA a la
	// cola local (grano grueso, sin rollback por campo).
	if err := uc.saleRepo.CreateHeader(ctx, sale); err != nil {
		remoteErr := &entity.RemoteWriteError{Op: "create sale header", Err: err}
		log.Printf("⚠️  %v — la venta pasa a la cola local", remoteErr)
		return uc.enqueue(ctx, req, sale, remoteErr.Error())
	}

	warnings := uc.applySideEffects(ctx, req, sale)

	metrics.SalesCommitted.Inc()
	log.Printf("✅ Venta confirmada: id=%s, total=%s, items=%d, warnings=%d",
		sale.ID, sale.TotalAmount, sale.TotalItems(), len(warnings))

	accessKey := ""
	if sale.FiscalAccessKey != nil {
		accessKey = *sale.FiscalAccessKey
	}
	receipt := entity.BuildReceipt(uc.config.Store, sale, uc.config.TaxRate, accessKey)

	return &entity.CommitOutcome{
		Code:     entity.OutcomeCommitted,
		SaleID:   sale.ID,
		Warnings: warnings,
		Receipt:  receipt,
	}, nil
}

// buildAndValidate arma el aggregate y corre la puerta de validación. La
// disponibilidad de crédito se chequea solo en el commit online directo:
// offline no hay lectura remota del saldo, y al sincronizar la mercadería
// ya salió de la tienda, así que el débito se asienta igual.
func (uc *CommitSaleUseCase) buildAndValidate(ctx context.Context, req *request.CommitSaleRequest, online bool) (*entity.Sale, error) {
	currency := req.Currency
	if currency == "" {
		currency = uc.config.Currency
	}

	sale, err := entity.NewSaleFromCart(
		req.SaleID,
		req.Cart,
		req.Allocations,
		req.CustomerID,
		req.AmountReceived,
		req.OperatorName,
		currency,
	)
	if err != nil {
		return nil, err
	}

	storeCredit := sale.StoreCreditAllocated()
	if storeCredit.GreaterThan(decimal.Zero) && online {
		balance, err := uc.creditLedger.Balance(ctx, *sale.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("error reading customer credit balance: %w", err)
		}
		limit, err := uc.creditLedger.CreditLimit(ctx, *sale.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("error reading customer credit limit: %w", err)
		}
		if limit.Sub(balance).LessThan(storeCredit) {
			return nil, entity.ErrInsufficientCredit
		}
	}

	return sale, nil
}

// enqueue difiere la venta a la cola local durable. Una falla acá es fatal:
// sin cola la venta se pierde, hay que alertar al operador.
func (uc *CommitSaleUseCase) enqueue(ctx context.Context, req *request.CommitSaleRequest, sale *entity.Sale, reason string) (*entity.CommitOutcome, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &entity.QueueCorruptError{Err: err}
	}

	pending := entity.NewPendingSale(sale.ID, payload)
	if err := uc.queue.Enqueue(ctx, pending); err != nil {
		return nil, &entity.QueueCorruptError{Err: err}
	}

	metrics.SalesQueued.Inc()
	log.Printf("📥 Venta diferida a cola local: id=%s, total=%s (%s)", sale.ID, sale.TotalAmount, reason)

	// El ticket se proyecta igual: la venta diferida imprime lo mismo que
	// una confirmada.
	receipt := entity.BuildReceipt(uc.config.Store, sale, uc.config.TaxRate, "")

	return &entity.CommitOutcome{
		Code:    entity.OutcomeQueued,
		SaleID:  sale.ID,
		Receipt: receipt,
	}, nil
}

// applySideEffects corre los pasos (b)–(h) del commit. Cada paso es
// independiente: una falla se loguea, suma un warning y NO detiene los
// restantes. La venta comercial ya está confirmada.
//
// Carrera conocida (documentada, no resuelta en esta capa más allá del lock
// de fila en los repos): lectura/escritura de saldos de crédito y puntos
// entre ventas concurrentes del mismo cliente en terminales distintas.
func (uc *CommitSaleUseCase) applySideEffects(ctx context.Context, req *request.CommitSaleRequest, sale *entity.Sale) []string {
	var warnings []string

	warn := func(step, format string, args ...interface{}) {
		msg := fmt.Sprintf(format, args...)
		metrics.SideEffectFailures.WithLabelValues(step).Inc()
		log.Printf("⚠️  [%s] %s", step, msg)
		warnings = append(warnings, msg)
	}

	// PASO (b): ingreso en caja por la porción en efectivo, si hay sesión
	// abierta.
	cash := sale.CashAllocated()
	if cash.GreaterThan(decimal.Zero) && uc.cashRegister != nil {
		open, err := uc.cashRegister.HasOpenSession(ctx)
		switch {
		case err != nil:
			warn("cash", "error checking cash session: %v", err)
		case open:
			if err := uc.cashRegister.RecordSaleInflow(ctx, sale.ID, cash); err != nil {
				warn("cash", "error recording sale inflow: %v", err)
			}
		default:
			log.Printf("ℹ️  Sin sesión de caja abierta, venta %s sin movimiento de caja", sale.ID)
		}
	}

	// PASO (c): líneas de la venta.
	if err := uc.saleRepo.AddItems(ctx, sale.ID, sale.Items); err != nil {
		warn("items", "error persisting sale items: %v", err)
	}

	// PASO (d): asignaciones de pago.
	if err := uc.saleRepo.AddAllocations(ctx, sale.ID, sale.Allocations); err != nil {
		warn("allocations", "error persisting payment allocations: %v", err)
	}

	// PASO (e): débito de crediario por cada asignación store_credit.
	for _, a := range sale.Allocations {
		if a.Method != entity.PaymentStoreCredit {
			continue
		}
		saleRef := sale.ID
		entry, err := uc.creditLedger.Append(ctx, *sale.CustomerID, entity.CreditEntryDebit, a.Amount, &saleRef, "venta con crédito de tienda")
		if err != nil {
			warn("credit", "error appending credit debit: %v", err)
			continue
		}
		log.Printf("💳 Crediario débito: cliente=%s, monto=%s, saldo=%s", entry.CustomerID, entry.Amount, entry.BalanceAfter)
	}

	// PASO (f): puntos — primero el canje, después la acumulación
	// floor(total × puntos_por_unidad).
	if uc.config.LoyaltyActive && sale.CustomerID != nil && uc.loyaltyLedger != nil {
		saleRef := sale.ID
		if sale.LoyaltyPointsRedeemed > 0 {
			entry, err := uc.loyaltyLedger.Append(ctx, *sale.CustomerID, entity.LoyaltyEntryRedemption, sale.LoyaltyPointsRedeemed, &saleRef)
			if err != nil {
				warn("loyalty", "error appending loyalty redemption: %v", err)
			} else if entry.Points < sale.LoyaltyPointsRedeemed {
				log.Printf("ℹ️  Canje recortado al saldo disponible: pedido=%d, aplicado=%d", sale.LoyaltyPointsRedeemed, entry.Points)
			}
		}

		accrued := sale.TotalAmount.Mul(uc.config.PointsPerCurrencyUnit).Floor().IntPart()
		if accrued > 0 {
			if _, err := uc.loyaltyLedger.Append(ctx, *sale.CustomerID, entity.LoyaltyEntryAccrual, accrued, &saleRef); err != nil {
				warn("loyalty", "error appending loyalty accrual: %v", err)
			}
		}
	}

	// PASO (g): descuento de stock por línea.
	if uc.stockGateway != nil {
		for _, item := range sale.Items {
			ref := fmt.Sprintf("SALE-%s", sale.ID)
			if err := uc.stockGateway.RegisterSale(ctx, item.SKU, item.Quantity, ref); err != nil {
				warn("stock", "error registering stock sale for SKU %s: %v", item.SKU, err)
			}
		}
	}

	// PASO (h): emisión fiscal. Su falla queda como aviso no bloqueante: el
	// comprobante puede reintentarse después, la venta comercial no se
	// revierte jamás por un error fiscal.
	if req.IssueFiscalDocument && uc.fiscalIssuer != nil {
		uc.issueFiscalDocument(ctx, req, sale, warn)
	}

	return warnings
}

func (uc *CommitSaleUseCase) issueFiscalDocument(ctx context.Context, req *request.CommitSaleRequest, sale *entity.Sale, warn func(step, format string, args ...interface{})) {
	fiscalReq := uc.buildFiscalRequest(req, sale)

	result, err := uc.fiscalIssuer.Issue(ctx, fiscalReq)
	if err != nil {
		warn("fiscal", "error calling fiscal issuer: %v", err)
		return
	}
	if !result.Success {
		warn("fiscal", "fiscal issuance rejected: %s", result.Message)
		return
	}

	sale.FiscalAccessKey = &result.AccessKey
	sale.FiscalProtocol = &result.Protocol
	if err := uc.saleRepo.SetFiscalDocument(ctx, sale.ID, result.AccessKey, result.Protocol); err != nil {
		warn("fiscal", "error saving fiscal document reference: %v", err)
	}
	log.Printf("🧾 Comprobante fiscal emitido: venta=%s, clave=%s", sale.ID, result.AccessKey)
}

func (uc *CommitSaleUseCase) buildFiscalRequest(req *request.CommitSaleRequest, sale *entity.Sale) *entity.FiscalRequest {
	items := make([]entity.FiscalRequestItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, entity.FiscalRequestItem{
			SKU:         it.SKU,
			Description: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Subtotal,
		})
	}

	payments := make([]entity.FiscalPayment, 0, len(sale.Allocations))
	for _, a := range sale.Allocations {
		code := "99"
		if uc.fiscalCodes != nil {
			code = uc.fiscalCodes.CodeFor(a.Method)
		}
		payments = append(payments, entity.FiscalPayment{MethodCode: code, Amount: a.Amount})
	}

	return &entity.FiscalRequest{
		SaleID:         sale.ID,
		Items:          items,
		Payments:       payments,
		CustomerTaxID:  req.CustomerTaxID,
		TotalAmount:    sale.TotalAmount,
		DiscountAmount: sale.DiscountAmount,
	}
}
