package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FiscalRequestItem es una línea del pedido de emisión fiscal.
type FiscalRequestItem struct {
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// FiscalPayment es un pago mapeado al código de medio de pago que exige la
// autoridad fiscal.
type FiscalPayment struct {
	MethodCode string          `json:"method_code"`
	Amount     decimal.Decimal `json:"amount"`
}

// FiscalRequest es el contrato de emisión hacia el emisor fiscal. El
// protocolo con la autoridad es externo: acá solo se consume el contrato
// request/response.
type FiscalRequest struct {
	SaleID         uuid.UUID           `json:"sale_id"`
	Items          []FiscalRequestItem `json:"items"`
	Payments       []FiscalPayment     `json:"payments"`
	CustomerTaxID  string              `json:"customer_tax_id,omitempty"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
}

// FiscalResult es la respuesta del emisor fiscal. Una falla acá nunca
// revierte la venta comercial.
type FiscalResult struct {
	Success   bool   `json:"success"`
	AccessKey string `json:"access_key,omitempty"`
	Protocol  string `json:"protocol,omitempty"`
	Message   string `json:"message,omitempty"`
}
