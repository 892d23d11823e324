package entity

import (
	"github.com/shopspring/decimal"
)

// PaymentMethod es el medio de pago de una asignación.
type PaymentMethod string

const (
	PaymentCash            PaymentMethod = "cash"
	PaymentCreditCard      PaymentMethod = "credit_card"
	PaymentDebitCard       PaymentMethod = "debit_card"
	PaymentInstantTransfer PaymentMethod = "instant_transfer"
	PaymentStoreCredit     PaymentMethod = "store_credit"
)

// Valid indica si el método de pago es uno de los conocidos.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentInstantTransfer, PaymentStoreCredit:
		return true
	}
	return false
}

// PaymentAllocation asigna una porción del total a un medio de pago.
// La suma de asignaciones debe igualar el total de la venta dentro del
// epsilon de redondeo.
type PaymentAllocation struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// paymentEpsilon es la tolerancia de redondeo al comparar la suma de
// asignaciones contra el total (centavo).
var paymentEpsilon = decimal.NewFromFloat(0.01)

// AllocationsMatchTotal verifica |Σ asignaciones − total| ≤ epsilon.
func AllocationsMatchTotal(allocations []PaymentAllocation, total decimal.Decimal) bool {
	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(a.Amount)
	}
	return sum.Sub(total).Abs().LessThanOrEqual(paymentEpsilon)
}

// SumByMethod retorna la porción asignada a un método dado.
func SumByMethod(allocations []PaymentAllocation, method PaymentMethod) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocations {
		if a.Method == method {
			sum = sum.Add(a.Amount)
		}
	}
	return sum
}
