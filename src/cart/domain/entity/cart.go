package entity

import (
	"github.com/shopspring/decimal"
)

// OrderDiscount representa un descuento a nivel de la venta completa.
type OrderDiscount struct {
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
	Reason  string          `json:"reason"`
}

// Cart es el carrito de la terminal: lista ordenada de líneas más el
// descuento de orden y el canje de puntos. Es un valor propio de la sesión
// de la terminal, sin estado global compartido; toda mutación pasa por sus
// métodos.
type Cart struct {
	Items                  []LineItem      `json:"items"`
	OrderDiscount          *OrderDiscount  `json:"order_discount,omitempty"`
	LoyaltyPointsToRedeem  int64           `json:"loyalty_points_to_redeem"`
	LoyaltyRedemptionValue decimal.Decimal `json:"loyalty_redemption_value"`
}

// NewCart crea un carrito vacío.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem agrega una línea por unidad. Si el SKU ya está en el carrito la
// cantidad se incrementa en lugar de duplicar la línea. Los productos
// pesables no pasan por acá: requieren AddWeighedItem con peso explícito.
func (c *Cart) AddItem(item *LineItem) error {
	if item.ByWeight {
		return ErrWeightRequired
	}

	for i := range c.Items {
		if c.Items[i].SKU == item.SKU && !c.Items[i].ByWeight {
			c.Items[i].Quantity = c.Items[i].Quantity.Add(item.Quantity)
			return nil
		}
	}

	c.Items = append(c.Items, *item)
	return nil
}

// AddWeighedItem agrega una línea pesable. Cada pesada entra como línea
// propia, nunca se incrementa una existente.
func (c *Cart) AddWeighedItem(item *LineItem) error {
	if !item.ByWeight {
		return ErrNotWeighedProduct
	}
	if item.Quantity.LessThanOrEqual(decimal.Zero) {
		return ErrWeightRequired
	}

	c.Items = append(c.Items, *item)
	return nil
}

// RemoveItem quita la primera línea que coincide con el SKU.
func (c *Cart) RemoveItem(sku string) error {
	for i := range c.Items {
		if c.Items[i].SKU == sku {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// UpdateQuantity cambia la cantidad de una línea. Cantidad cero elimina la
// línea; cantidad negativa es inválida.
func (c *Cart) UpdateQuantity(sku string, quantity decimal.Decimal) error {
	if quantity.LessThan(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if quantity.IsZero() {
		return c.RemoveItem(sku)
	}

	for i := range c.Items {
		if c.Items[i].SKU == sku {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

// SetItemDiscount aplica un descuento a la línea. El valor efectivo queda
// recortado al valor de la línea (ver LineItem.DiscountValue).
func (c *Cart) SetItemDiscount(sku string, discount LineDiscount) error {
	if discount.Amount.LessThan(decimal.Zero) || discount.Percent.LessThan(decimal.Zero) {
		return ErrInvalidDiscount
	}

	for i := range c.Items {
		if c.Items[i].SKU == sku {
			d := discount
			c.Items[i].Discount = &d
			return nil
		}
	}
	return ErrItemNotFound
}

// ClearItemDiscount quita el descuento de la línea.
func (c *Cart) ClearItemDiscount(sku string) error {
	for i := range c.Items {
		if c.Items[i].SKU == sku {
			c.Items[i].Discount = nil
			return nil
		}
	}
	return ErrItemNotFound
}

// SetOrderDiscount aplica un descuento a nivel venta.
func (c *Cart) SetOrderDiscount(discount OrderDiscount) error {
	if discount.Amount.LessThan(decimal.Zero) || discount.Percent.LessThan(decimal.Zero) {
		return ErrInvalidDiscount
	}
	d := discount
	c.OrderDiscount = &d
	return nil
}

// ClearOrderDiscount quita el descuento de la venta.
func (c *Cart) ClearOrderDiscount() {
	c.OrderDiscount = nil
}

// SetLoyaltyRedemption registra el canje de puntos a descontar del total.
func (c *Cart) SetLoyaltyRedemption(points int64, value decimal.Decimal) {
	if points <= 0 || value.LessThan(decimal.Zero) {
		c.LoyaltyPointsToRedeem = 0
		c.LoyaltyRedemptionValue = decimal.Zero
		return
	}
	c.LoyaltyPointsToRedeem = points
	c.LoyaltyRedemptionValue = value
}

// IsEmpty indica si el carrito no tiene líneas.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal retorna la suma de valores brutos de todas las líneas.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for i := range c.Items {
		subtotal = subtotal.Add(c.Items[i].GrossValue())
	}
	return subtotal
}

// ItemDiscountTotal retorna la suma de descuentos por línea.
func (c *Cart) ItemDiscountTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].DiscountValue())
	}
	return total
}

// OrderDiscountValue retorna el descuento de orden efectivo: monto fijo más
// porcentaje sobre el subtotal ya neto de descuentos por línea.
func (c *Cart) OrderDiscountValue() decimal.Decimal {
	if c.OrderDiscount == nil {
		return decimal.Zero
	}

	base := c.Subtotal().Sub(c.ItemDiscountTotal())
	value := c.OrderDiscount.Amount
	if c.OrderDiscount.Percent.GreaterThan(decimal.Zero) {
		value = value.Add(base.Mul(c.OrderDiscount.Percent).Div(decimal.NewFromInt(100)))
	}
	return value
}

// Total retorna max(0, subtotal − descuentos por línea − descuento de orden
// − valor canjeado en puntos). El recorte en cero es regla de negocio, no un
// error: ningún descuento puede generar un total negativo.
func (c *Cart) Total() decimal.Decimal {
	total := c.Subtotal().
		Sub(c.ItemDiscountTotal()).
		Sub(c.OrderDiscountValue()).
		Sub(c.LoyaltyRedemptionValue)

	if total.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return total
}

// TotalItems retorna el número de líneas del carrito.
func (c *Cart) TotalItems() int {
	return len(c.Items)
}
