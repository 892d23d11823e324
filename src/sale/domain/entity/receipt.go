package entity

import (
	"github.com/shopspring/decimal"
)

// StoreInfo son los datos de la tienda que encabezan el ticket.
type StoreInfo struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

// ReceiptItem es una línea del ticket.
type ReceiptItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ReceiptPayment es un pago mostrado en el ticket.
type ReceiptPayment struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// Receipt es la proyección pura de datos del ticket. Se calcula siempre a
// partir del aggregate, independiente del resultado de persistencia: una
// venta encolada imprime el mismo ticket que una confirmada online. La
// impresión es responsabilidad de otra capa.
type Receipt struct {
	Store           StoreInfo        `json:"store"`
	Items           []ReceiptItem    `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	Discount        decimal.Decimal  `json:"discount"`
	Total           decimal.Decimal  `json:"total"`
	TaxEstimate     decimal.Decimal  `json:"tax_estimate"`
	Payments        []ReceiptPayment `json:"payments"`
	AmountReceived  decimal.Decimal  `json:"amount_received"`
	Change          decimal.Decimal  `json:"change"`
	OperatorName    string           `json:"operator_name"`
	FiscalAccessKey string           `json:"fiscal_access_key,omitempty"`
}

// BuildReceipt proyecta el ticket desde la venta. taxRate es la alícuota
// estimada (ej. 0.21); el impuesto informado es el incluido en el total:
// total × rate / (1 + rate).
func BuildReceipt(store StoreInfo, sale *Sale, taxRate decimal.Decimal, fiscalAccessKey string) *Receipt {
	items := make([]ReceiptItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, ReceiptItem{
			Description: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.Subtotal,
		})
	}

	payments := make([]ReceiptPayment, 0, len(sale.Allocations))
	for _, a := range sale.Allocations {
		payments = append(payments, ReceiptPayment{Method: a.Method, Amount: a.Amount})
	}

	taxEstimate := decimal.Zero
	if taxRate.GreaterThan(decimal.Zero) {
		one := decimal.NewFromInt(1)
		taxEstimate = sale.TotalAmount.Mul(taxRate).Div(one.Add(taxRate)).Round(2)
	}

	return &Receipt{
		Store:           store,
		Items:           items,
		Subtotal:        sale.SubtotalAmount,
		Discount:        sale.DiscountAmount.Add(sale.LoyaltyRedemptionValue),
		Total:           sale.TotalAmount,
		TaxEstimate:     taxEstimate,
		Payments:        payments,
		AmountReceived:  sale.AmountReceived,
		Change:          sale.Change,
		OperatorName:    sale.OperatorName,
		FiscalAccessKey: fiscalAccessKey,
	}
}
