package production

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrIllegalTransition   = errors.New("illegal order transition")
	ErrExceedsCuttingStock = errors.New("quantity exceeds cutting room stock")
	ErrNothingToDistribute = errors.New("nothing to distribute")
	ErrSplitNotFound       = errors.New("split not found")
	ErrSplitFinished       = errors.New("split already finished")
	ErrSeamstressInactive  = errors.New("seamstress is inactive")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrOrderExists         = errors.New("order id already in use")
	ErrProductInUse        = errors.New("product is referenced by production orders")
)
