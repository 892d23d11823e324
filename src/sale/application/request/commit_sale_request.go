package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartEntity "pdv/src/cart/domain/entity"
	"pdv/src/sale/domain/entity"
)

// CommitSaleRequest es el snapshot de entrada del commit: carrito,
// asignaciones de pago y datos del cliente/operador. Este mismo snapshot se
// serializa a la cola local cuando la venta queda diferida, así la réplica
// del sincronizador corre exactamente el mismo input.
type CommitSaleRequest struct {
	// SaleID lo genera la terminal; uuid.Nil hace que el commiter genere
	// uno. Es la clave de idempotencia contra el almacén remoto.
	SaleID uuid.UUID `json:"sale_id"`

	Cart        *cartEntity.Cart           `json:"cart"`
	Allocations []entity.PaymentAllocation `json:"allocations"`
	CustomerID  *uuid.UUID                 `json:"customer_id,omitempty"`

	// AmountReceived es el efectivo entregado por el cliente; debe cubrir al
	// menos la porción asignada a efectivo.
	AmountReceived decimal.Decimal `json:"amount_received"`

	IssueFiscalDocument bool   `json:"issue_fiscal_document"`
	CustomerTaxID       string `json:"customer_tax_id,omitempty"`
	OperatorName        string `json:"operator_name"`
	Currency            string `json:"currency,omitempty"`
}
