package entity

import (
	"github.com/shopspring/decimal"
)

// LineDiscount representa un descuento aplicado a una línea del carrito.
// Puede combinar un monto fijo y un porcentaje sobre el valor bruto.
type LineDiscount struct {
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
	Reason  string          `json:"reason"`
}

// LineItem representa una línea del carrito.
// Los productos pesables (ByWeight) llevan la cantidad en kilos/litros y
// solo pueden entrar al carrito con un peso explícito.
type LineItem struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	ByWeight    bool            `json:"by_weight"`
	Discount    *LineDiscount   `json:"discount,omitempty"`
}

// NewLineItem crea una línea de producto por unidad.
func NewLineItem(sku, productName string, unitPrice, quantity decimal.Decimal) (*LineItem, error) {
	if sku == "" {
		return nil, ErrSKURequired
	}
	if productName == "" {
		return nil, ErrProductNameRequired
	}
	if unitPrice.LessThan(decimal.Zero) {
		return nil, ErrInvalidPrice
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}

	return &LineItem{
		SKU:         sku,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	}, nil
}

// NewWeighedLineItem crea una línea de producto pesable con el peso ingresado.
func NewWeighedLineItem(sku, productName string, unitPrice, weight decimal.Decimal) (*LineItem, error) {
	if weight.LessThanOrEqual(decimal.Zero) {
		return nil, ErrWeightRequired
	}

	item, err := NewLineItem(sku, productName, unitPrice, weight)
	if err != nil {
		return nil, err
	}
	item.ByWeight = true
	return item, nil
}

// GrossValue retorna precio unitario × cantidad, sin descuentos.
func (li *LineItem) GrossValue() decimal.Decimal {
	return li.UnitPrice.Mul(li.Quantity)
}

// DiscountValue retorna el descuento efectivo de la línea.
// El descuento nunca supera el valor bruto de la línea: se recorta, igual
// que el total del carrito se recorta en cero.
func (li *LineItem) DiscountValue() decimal.Decimal {
	if li.Discount == nil {
		return decimal.Zero
	}

	gross := li.GrossValue()
	value := li.Discount.Amount
	if li.Discount.Percent.GreaterThan(decimal.Zero) {
		value = value.Add(gross.Mul(li.Discount.Percent).Div(decimal.NewFromInt(100)))
	}

	if value.GreaterThan(gross) {
		return gross
	}
	return value
}

// NetValue retorna el valor de la línea con su descuento aplicado.
func (li *LineItem) NetValue() decimal.Decimal {
	return li.GrossValue().Sub(li.DiscountValue())
}
