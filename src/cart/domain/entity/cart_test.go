package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustItem(t *testing.T, sku, name, price, qty string) *LineItem {
	t.Helper()
	item, err := NewLineItem(sku, name, dec(price), dec(qty))
	require.NoError(t, err)
	return item
}

func TestNewLineItem_Validation(t *testing.T) {
	_, err := NewLineItem("", "Leche", dec("10"), dec("1"))
	assert.ErrorIs(t, err, ErrSKURequired)

	_, err = NewLineItem("SKU-1", "", dec("10"), dec("1"))
	assert.ErrorIs(t, err, ErrProductNameRequired)

	_, err = NewLineItem("SKU-1", "Leche", dec("-1"), dec("1"))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewLineItem("SKU-1", "Leche", dec("10"), dec("0"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCart_AddItem_MergesSameSKU(t *testing.T) {
	cart := NewCart()

	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "10.00", "1")))
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "10.00", "2")))

	require.Equal(t, 1, cart.TotalItems())
	assert.True(t, cart.Items[0].Quantity.Equal(dec("3")))
	assert.True(t, cart.Subtotal().Equal(dec("30.00")))
}

func TestCart_AddItem_RejectsWeighedProduct(t *testing.T) {
	cart := NewCart()
	item, err := NewWeighedLineItem("SKU-W", "Queso", dec("120.00"), dec("0.350"))
	require.NoError(t, err)

	assert.ErrorIs(t, cart.AddItem(item), ErrWeightRequired)
}

func TestCart_AddWeighedItem_EachWeighingIsOwnLine(t *testing.T) {
	cart := NewCart()

	first, err := NewWeighedLineItem("SKU-W", "Queso", dec("120.00"), dec("0.500"))
	require.NoError(t, err)
	second, err := NewWeighedLineItem("SKU-W", "Queso", dec("120.00"), dec("0.250"))
	require.NoError(t, err)

	require.NoError(t, cart.AddWeighedItem(first))
	require.NoError(t, cart.AddWeighedItem(second))

	assert.Equal(t, 2, cart.TotalItems())
	assert.True(t, cart.Subtotal().Equal(dec("90.00")))
}

func TestNewWeighedLineItem_RequiresPositiveWeight(t *testing.T) {
	_, err := NewWeighedLineItem("SKU-W", "Queso", dec("120.00"), dec("0"))
	assert.ErrorIs(t, err, ErrWeightRequired)
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "10.00", "2")))

	// Cantidad negativa es inválida
	assert.ErrorIs(t, cart.UpdateQuantity("SKU-1", dec("-1")), ErrInvalidQuantity)

	// Cantidad cero elimina la línea
	require.NoError(t, cart.UpdateQuantity("SKU-1", dec("0")))
	assert.True(t, cart.IsEmpty())

	assert.ErrorIs(t, cart.UpdateQuantity("SKU-1", dec("1")), ErrItemNotFound)
}

func TestCart_RemoveItem(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "10.00", "1")))
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-2", "Pan", "5.00", "1")))

	require.NoError(t, cart.RemoveItem("SKU-1"))
	assert.Equal(t, 1, cart.TotalItems())
	assert.Equal(t, "SKU-2", cart.Items[0].SKU)

	assert.ErrorIs(t, cart.RemoveItem("SKU-1"), ErrItemNotFound)
}

func TestLineItem_DiscountClampedAtLineValue(t *testing.T) {
	item := mustItem(t, "SKU-1", "Leche", "10.00", "2")
	item.Discount = &LineDiscount{Amount: dec("50.00")}

	// El descuento nunca supera el valor bruto de la línea
	assert.True(t, item.DiscountValue().Equal(dec("20.00")))
	assert.True(t, item.NetValue().Equal(dec("0")))
}

func TestLineItem_PercentDiscount(t *testing.T) {
	item := mustItem(t, "SKU-1", "Leche", "10.00", "2")
	item.Discount = &LineDiscount{Percent: dec("10")}

	assert.True(t, item.DiscountValue().Equal(dec("2.00")))
	assert.True(t, item.NetValue().Equal(dec("18.00")))
}

func TestCart_SetItemDiscount_RejectsNegative(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "10.00", "1")))

	err := cart.SetItemDiscount("SKU-1", LineDiscount{Amount: dec("-5")})
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestCart_OrderDiscount_PercentOverNetSubtotal(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "50.00", "2")))
	require.NoError(t, cart.SetItemDiscount("SKU-1", LineDiscount{Amount: dec("20.00")}))

	// 10% sobre (100 − 20) = 8
	require.NoError(t, cart.SetOrderDiscount(OrderDiscount{Percent: dec("10")}))

	assert.True(t, cart.OrderDiscountValue().Equal(dec("8.00")))
	assert.True(t, cart.Total().Equal(dec("72.00")))
}

func TestCart_Total_ClampsAtZero(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "40.00", "2")))

	// Descuento de orden mayor que el subtotal: el total queda en cero,
	// nunca negativo
	require.NoError(t, cart.SetOrderDiscount(OrderDiscount{Amount: dec("100.00")}))

	assert.True(t, cart.Total().Equal(decimal.Zero))
}

func TestCart_LoyaltyRedemptionReducesTotal(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "50.00", "2")))

	cart.SetLoyaltyRedemption(300, dec("30.00"))
	assert.True(t, cart.Total().Equal(dec("70.00")))

	// Puntos no positivos resetean el canje
	cart.SetLoyaltyRedemption(0, dec("30.00"))
	assert.Equal(t, int64(0), cart.LoyaltyPointsToRedeem)
	assert.True(t, cart.Total().Equal(dec("100.00")))
}

func TestCart_ClearDiscounts(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.AddItem(mustItem(t, "SKU-1", "Leche", "10.00", "1")))
	require.NoError(t, cart.SetItemDiscount("SKU-1", LineDiscount{Amount: dec("2.00")}))
	require.NoError(t, cart.SetOrderDiscount(OrderDiscount{Amount: dec("1.00")}))

	require.NoError(t, cart.ClearItemDiscount("SKU-1"))
	cart.ClearOrderDiscount()

	assert.True(t, cart.Total().Equal(dec("10.00")))
}
