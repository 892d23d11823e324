package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartEntity "pdv/src/cart/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func cartWith(t *testing.T, price, qty string) *cartEntity.Cart {
	t.Helper()
	cart := cartEntity.NewCart()
	item, err := cartEntity.NewLineItem("SKU-1", "Leche", dec(price), dec(qty))
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(item))
	return cart
}

func TestNewSaleFromCart_CashWithChange(t *testing.T) {
	cart := cartWith(t, "10.00", "2")
	id := uuid.New()

	sale, err := NewSaleFromCart(id, cart,
		[]PaymentAllocation{{Method: PaymentCash, Amount: dec("20.00")}},
		nil, dec("50.00"), "cajero1", "ARS",
	)
	require.NoError(t, err)

	assert.Equal(t, id, sale.ID)
	assert.Equal(t, SaleStatusFinalized, sale.Status)
	assert.True(t, sale.TotalAmount.Equal(dec("20.00")))
	assert.True(t, sale.Change.Equal(dec("30.00")))
	assert.True(t, sale.CashAllocated().Equal(dec("20.00")))
	assert.Equal(t, 1, sale.TotalItems())
	assert.Equal(t, "ARS", sale.Currency)
}

func TestNewSaleFromCart_ExactCashNoChange(t *testing.T) {
	cart := cartWith(t, "10.00", "2")

	sale, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{{Method: PaymentCash, Amount: dec("20.00")}},
		nil, dec("20.00"), "cajero1", "ARS",
	)
	require.NoError(t, err)
	assert.True(t, sale.Change.Equal(decimal.Zero))
}

func TestNewSaleFromCart_EmptyCart(t *testing.T) {
	_, err := NewSaleFromCart(uuid.New(), cartEntity.NewCart(),
		[]PaymentAllocation{{Method: PaymentCash, Amount: dec("10.00")}},
		nil, dec("10.00"), "cajero1", "ARS",
	)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNewSaleFromCart_PaymentRequired(t *testing.T) {
	cart := cartWith(t, "10.00", "1")
	_, err := NewSaleFromCart(uuid.New(), cart, nil, nil, decimal.Zero, "cajero1", "ARS")
	assert.ErrorIs(t, err, ErrPaymentRequired)
}

func TestNewSaleFromCart_UnknownMethod(t *testing.T) {
	cart := cartWith(t, "10.00", "1")
	_, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{{Method: "bitcoin", Amount: dec("10.00")}},
		nil, decimal.Zero, "cajero1", "ARS",
	)
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}

func TestNewSaleFromCart_AllocationMismatch(t *testing.T) {
	cart := cartWith(t, "10.00", "2")
	_, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{{Method: PaymentCash, Amount: dec("15.00")}},
		nil, dec("15.00"), "cajero1", "ARS",
	)
	assert.ErrorIs(t, err, ErrAllocationMismatch)
}

func TestNewSaleFromCart_AllocationWithinEpsilon(t *testing.T) {
	cart := cartWith(t, "10.00", "2")
	// 19.99 contra total 20.00: dentro del centavo de tolerancia
	sale, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{{Method: PaymentCash, Amount: dec("19.99")}},
		nil, dec("19.99"), "cajero1", "ARS",
	)
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(dec("20.00")))
}

func TestNewSaleFromCart_InsufficientCash(t *testing.T) {
	cart := cartWith(t, "10.00", "2")
	_, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{{Method: PaymentCash, Amount: dec("20.00")}},
		nil, dec("15.00"), "cajero1", "ARS",
	)
	assert.ErrorIs(t, err, ErrInsufficientCash)
}

func TestNewSaleFromCart_StoreCreditRequiresCustomer(t *testing.T) {
	cart := cartWith(t, "10.00", "2")
	_, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{{Method: PaymentStoreCredit, Amount: dec("20.00")}},
		nil, decimal.Zero, "cajero1", "ARS",
	)
	assert.ErrorIs(t, err, ErrCustomerRequired)
}

func TestNewSaleFromCart_SplitPayment(t *testing.T) {
	cart := cartWith(t, "15.00", "1")
	customerID := uuid.New()

	sale, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{
			{Method: PaymentCash, Amount: dec("7.50")},
			{Method: PaymentStoreCredit, Amount: dec("7.50")},
		},
		&customerID, dec("7.50"), "cajero1", "ARS",
	)
	require.NoError(t, err)

	assert.True(t, sale.CashAllocated().Equal(dec("7.50")))
	assert.True(t, sale.StoreCreditAllocated().Equal(dec("7.50")))
	// El recibido cubre solo la porción en efectivo: vuelto cero
	assert.True(t, sale.Change.Equal(decimal.Zero))
}

func TestNewSaleFromCart_DefaultCurrency(t *testing.T) {
	cart := cartWith(t, "10.00", "1")
	sale, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{{Method: PaymentCash, Amount: dec("10.00")}},
		nil, dec("10.00"), "cajero1", "",
	)
	require.NoError(t, err)
	assert.Equal(t, "ARS", sale.Currency)
}

func TestNewSaleFromCart_ItemSnapshotCarriesDiscount(t *testing.T) {
	cart := cartWith(t, "10.00", "2")
	require.NoError(t, cart.SetItemDiscount("SKU-1", cartEntity.LineDiscount{Amount: dec("4.00")}))

	sale, err := NewSaleFromCart(uuid.New(), cart,
		[]PaymentAllocation{{Method: PaymentCash, Amount: dec("16.00")}},
		nil, dec("16.00"), "cajero1", "ARS",
	)
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].DiscountAmount.Equal(dec("4.00")))
	assert.True(t, sale.Items[0].Subtotal.Equal(dec("16.00")))
	assert.True(t, sale.SubtotalAmount.Equal(dec("20.00")))
	assert.True(t, sale.DiscountAmount.Equal(dec("4.00")))
}

func TestHasFiscalDocument(t *testing.T) {
	sale := &Sale{}
	assert.False(t, sale.HasFiscalDocument())

	empty := ""
	sale.FiscalAccessKey = &empty
	assert.False(t, sale.HasFiscalDocument())

	key := "35260830000000000001"
	sale.FiscalAccessKey = &key
	assert.True(t, sale.HasFiscalDocument())
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentCash.Valid())
	assert.True(t, PaymentStoreCredit.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
}
