package entity

import (
	"errors"
	"fmt"
)

// Errores de validación: bloquean la venta antes de cualquier escritura.
var (
	ErrEmptyCart              = errors.New("cart must have at least one item")
	ErrPaymentRequired        = errors.New("at least one payment allocation is required")
	ErrUnknownPaymentMethod   = errors.New("unknown payment method")
	ErrInvalidAllocation      = errors.New("allocation amount must be greater than 0")
	ErrAllocationMismatch     = errors.New("payment allocations do not match sale total")
	ErrInsufficientCash       = errors.New("received amount is less than the cash allocation")
	ErrCustomerRequired       = errors.New("store credit payment requires a customer")
	ErrInsufficientCredit     = errors.New("customer has insufficient store credit available")
	ErrSaleNotFound           = errors.New("sale not found")
	ErrSaleNotFinalized       = errors.New("sale is not in FINALIZED state")
	ErrSaleHasFiscalDocument  = errors.New("sale has an issued fiscal document; cancel it through the fiscal authority flow")
	ErrCancelReasonTooShort   = errors.New("cancellation reason must have at least 10 characters")
)

// RemoteWriteError marca la falla de una escritura remota del header de
// venta. El commit la atrapa y encola la venta completa: no se muestra como
// error sino como venta diferida.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("remote write failed (%s): %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// QueueCorruptError marca la falla del almacenamiento local durable. Es
// fatal: sin cola local la venta se perdería en silencio, hay que alertar
// al operador.
type QueueCorruptError struct {
	Err error
}

func (e *QueueCorruptError) Error() string {
	return fmt.Sprintf("local durable queue failure: %v", e.Err)
}

func (e *QueueCorruptError) Unwrap() error {
	return e.Err
}
