package model

import "errors"

var (
	// ErrInvalidAmount is returned when a requested, negotiated or checked
	// amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNilRequest is returned when a nil request is supplied.
	ErrNilRequest = errors.New("nil request")
)
