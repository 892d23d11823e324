package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartEntity "pdv/src/cart/domain/entity"
)

// SaleStatus es el estado del header de venta en el almacén remoto.
type SaleStatus string

const (
	SaleStatusFinalized SaleStatus = "FINALIZED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// SaleItem es el snapshot inmutable de una línea al momento del commit.
type SaleItem struct {
	ID             uuid.UUID       `json:"id"`
	SaleID         uuid.UUID       `json:"sale_id"`
	SKU            string          `json:"sku"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Subtotal       decimal.Decimal `json:"subtotal"` // bruto − descuento de línea
}

// Sale es el aggregate root de una venta finalizada (DDD Aggregate Root).
// El ID lo genera la terminal y funciona como clave de idempotencia contra
// el almacén remoto: la misma venta sincronizada dos veces no se duplica.
type Sale struct {
	ID                     uuid.UUID           `json:"id"`
	CustomerID             *uuid.UUID          `json:"customer_id"` // NULL = consumidor final
	Status                 SaleStatus          `json:"status"`
	SubtotalAmount         decimal.Decimal     `json:"subtotal_amount"`
	DiscountAmount         decimal.Decimal     `json:"discount_amount"` // líneas + orden
	LoyaltyPointsRedeemed  int64               `json:"loyalty_points_redeemed"`
	LoyaltyRedemptionValue decimal.Decimal     `json:"loyalty_redemption_value"`
	TotalAmount            decimal.Decimal     `json:"total_amount"`
	AmountReceived         decimal.Decimal     `json:"amount_received"` // efectivo entregado
	Change                 decimal.Decimal     `json:"change"`          // vuelto
	Currency               string              `json:"currency"`
	OperatorName           string              `json:"operator_name"`
	Items                  []SaleItem          `json:"items"`
	Allocations            []PaymentAllocation `json:"allocations"`
	FiscalAccessKey        *string             `json:"fiscal_access_key,omitempty"`
	FiscalProtocol         *string             `json:"fiscal_protocol,omitempty"`
	CancelReason           *string             `json:"cancel_reason,omitempty"`
	CancelledAt            *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
}

// NewSaleFromCart arma el aggregate de venta a partir del carrito y las
// asignaciones de pago. Valida la puerta de entrada del commit: medio de
// pago presente y conocido, suma de asignaciones igual al total dentro del
// epsilon, y efectivo recibido suficiente para la porción en efectivo.
// La disponibilidad de crédito del cliente se valida aparte porque requiere
// una lectura remota.
func NewSaleFromCart(
	id uuid.UUID,
	cart *cartEntity.Cart,
	allocations []PaymentAllocation,
	customerID *uuid.UUID,
	amountReceived decimal.Decimal,
	operatorName string,
	currency string,
) (*Sale, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if len(allocations) == 0 {
		return nil, ErrPaymentRequired
	}
	for _, a := range allocations {
		if !a.Method.Valid() {
			return nil, ErrUnknownPaymentMethod
		}
		if a.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidAllocation
		}
	}

	total := cart.Total()
	if !AllocationsMatchTotal(allocations, total) {
		return nil, ErrAllocationMismatch
	}

	cashAllocated := SumByMethod(allocations, PaymentCash)
	if cashAllocated.GreaterThan(decimal.Zero) && amountReceived.LessThan(cashAllocated) {
		return nil, ErrInsufficientCash
	}
	for _, a := range allocations {
		if a.Method == PaymentStoreCredit && customerID == nil {
			return nil, ErrCustomerRequired
		}
	}

	if currency == "" {
		currency = "ARS"
	}

	change := decimal.Zero
	if cashAllocated.GreaterThan(decimal.Zero) {
		change = amountReceived.Sub(cashAllocated)
	}

	items := make([]SaleItem, 0, len(cart.Items))
	for i := range cart.Items {
		line := &cart.Items[i]
		items = append(items, SaleItem{
			ID:             uuid.New(),
			SaleID:         id,
			SKU:            line.SKU,
			ProductName:    line.ProductName,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			DiscountAmount: line.DiscountValue(),
			Subtotal:       line.NetValue(),
		})
	}

	return &Sale{
		ID:                     id,
		CustomerID:             customerID,
		Status:                 SaleStatusFinalized,
		SubtotalAmount:         cart.Subtotal(),
		DiscountAmount:         cart.ItemDiscountTotal().Add(cart.OrderDiscountValue()),
		LoyaltyPointsRedeemed:  cart.LoyaltyPointsToRedeem,
		LoyaltyRedemptionValue: cart.LoyaltyRedemptionValue,
		TotalAmount:            total,
		AmountReceived:         amountReceived,
		Change:                 change,
		Currency:               currency,
		OperatorName:           operatorName,
		Items:                  items,
		Allocations:            allocations,
		CreatedAt:              time.Now(),
	}, nil
}

// CashAllocated retorna la porción del total pagada en efectivo.
func (s *Sale) CashAllocated() decimal.Decimal {
	return SumByMethod(s.Allocations, PaymentCash)
}

// StoreCreditAllocated retorna la porción pagada con crédito de la tienda.
func (s *Sale) StoreCreditAllocated() decimal.Decimal {
	return SumByMethod(s.Allocations, PaymentStoreCredit)
}

// HasFiscalDocument indica si la venta tiene comprobante fiscal emitido.
func (s *Sale) HasFiscalDocument() bool {
	return s.FiscalAccessKey != nil && *s.FiscalAccessKey != ""
}

// TotalItems retorna el número de líneas de la venta.
func (s *Sale) TotalItems() int {
	return len(s.Items)
}
