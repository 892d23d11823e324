package entity

import "errors"

var (
	ErrInvalidOpeningFloat    = errors.New("opening_float must be greater than or equal to 0")
	ErrSessionAlreadyOpen     = errors.New("a cash session is already open")
	ErrNoOpenSession          = errors.New("no cash session is open")
	ErrSessionNotOpen         = errors.New("cash session is not open")
	ErrInvalidMovementKind    = errors.New("unknown cash movement kind")
	ErrInvalidMovementAmount  = errors.New("movement amount must be greater than 0")
	ErrMovementDescRequired   = errors.New("movement description is required")
)
