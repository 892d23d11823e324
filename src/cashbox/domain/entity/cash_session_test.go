package entity

import (
	"testing"

	"github.com/google/uuid"
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

func TestNewCashSession(t *testing.T) {
	session, err := NewCashSession(dec("100.00"))
	require.NoError(t, err)

	assert.True(t, session.IsOpen())
	assert.True(t, session.OpeningFloat.Equal(dec("100.00")))

	_, err = NewCashSession(dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidOpeningFloat)
}

func TestNewCashMovement_Validation(t *testing.T) {
	sessionID := uuid.New()

	_, err := NewCashMovement(sessionID, "withdrawal", dec("10"), "x", nil)
	assert.ErrorIs(t, err, ErrInvalidMovementKind)

	_, err = NewCashMovement(sessionID, MovementManualInflow, dec("0"), "suprimento", nil)
	assert.ErrorIs(t, err, ErrInvalidMovementAmount)

	_, err = NewCashMovement(sessionID, MovementManualOutflow, dec("10"), "", nil)
	assert.ErrorIs(t, err, ErrMovementDescRequired)
}

func TestCashSession_ExpectedBalance(t *testing.T) {
	session, err := NewCashSession(dec("100.00"))
	require.NoError(t, err)

	movements := []CashMovement{
		{Kind: MovementSaleInflow, Amount: dec("50.00")},
		{Kind: MovementManualInflow, Amount: dec("20.00")},
		{Kind: MovementManualOutflow, Amount: dec("30.00")},
	}

	// 100 + 50 + 20 − 30
	assert.True(t, session.ExpectedBalance(movements).Equal(dec("140.00")))
}

func TestCashSession_CloseRecordsDifference(t *testing.T) {
	session, err := NewCashSession(dec("100.00"))
	require.NoError(t, err)

	movements := []CashMovement{{Kind: MovementSaleInflow, Amount: dec("50.00")}}

	// El contado no coincide con el esperado: el cierre procede igual y la
	// diferencia queda registrada
	require.NoError(t, session.Close(dec("140.00"), movements))

	assert.False(t, session.IsOpen())
	require.NotNil(t, session.Difference)
	assert.True(t, session.ExpectedAmount.Equal(dec("150.00")))
	assert.True(t, session.Difference.Equal(dec("-10.00")))
	assert.NotNil(t, session.ClosedAt)
}

func TestCashSession_CloseTwice(t *testing.T) {
	session, err := NewCashSession(dec("100.00"))
	require.NoError(t, err)

	require.NoError(t, session.Close(dec("100.00"), nil))
	assert.ErrorIs(t, session.Close(dec("100.00"), nil), ErrSessionNotOpen)
}
