package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pdv/src/sale/domain/entity"
)

// ConnectivityMonitor reporta el estado de conexión contra el almacén
// remoto. El commiter lo muestrea una sola vez por intento: un cambio de
// conectividad en medio de un commit no aborta ese commit.
type ConnectivityMonitor interface {
	IsOnline() bool
}

// FiscalIssuer emite el comprobante fiscal. El protocolo con la autoridad
// es externo; un error acá jamás revierte la venta comercial.
type FiscalIssuer interface {
	Issue(ctx context.Context, req *entity.FiscalRequest) (*entity.FiscalResult, error)
}

// StockGateway registra el impacto de inventario de una venta y su
// restitución al cancelar.
type StockGateway interface {
	RegisterSale(ctx context.Context, sku string, quantity decimal.Decimal, reference string) error
	RestoreStock(ctx context.Context, sku string, quantity decimal.Decimal, reference string) error
}

// CashRegister es la vista que el commiter tiene de la caja: registra el
// ingreso por venta en la sesión abierta y el egreso de reversa al
// cancelar. La implementación vive en el contexto cashbox.
type CashRegister interface {
	HasOpenSession(ctx context.Context) (bool, error)
	RecordSaleInflow(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal) error
	RecordReversal(ctx context.Context, saleID uuid.UUID, amount decimal.Decimal, description string) error
}

// FiscalCodeResolver mapea el medio de pago interno al código que exige la
// autoridad fiscal.
type FiscalCodeResolver interface {
	CodeFor(method entity.PaymentMethod) string
}
