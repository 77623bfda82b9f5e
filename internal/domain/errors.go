package domain

import "errors"

// Validation errors. Callers map these to user-correctable input errors;
// anything else coming out of a service is a persistence failure.
var (
	ErrInvalidPoints   = errors.New("points must be a non-negative integer")
	ErrInvalidRate     = errors.New("cost per point must be a positive finite number")
	ErrInvalidPrice    = errors.New("price per 1000 must be a positive finite number")
	ErrInvalidLevel    = errors.New("no such level in the tier table")
	ErrUnknownCurrency = errors.New("unknown currency code")
)
