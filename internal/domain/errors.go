package domain

import "errors"

// Validation and lookup errors raised before any store is touched.
var (
	ErrInvalidIdentifier   = errors.New("buyable identifier must be positive")
	ErrInvalidName         = errors.New("buyable name must not be blank")
	ErrInvalidPrice        = errors.New("buyable price must not be negative")
	ErrZeroPriceNotAllowed = errors.New("zero-price buyable is not allowed")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrUnknownRowID        = errors.New("cart does not contain row")
	ErrBlankInstance       = errors.New("cart instance must not be blank")
	ErrBlankGuard          = errors.New("cart guard must not be blank")
)
