package errors

import "errors"

var (
	ErrUnauthorized     = errors.New("caller is not the treasury administrator")
	ErrTransferFailed   = errors.New("outgoing monetary transfer did not succeed")
	ErrTransferRejected = errors.New("recipient rejected the transfer")
	ErrReentrant        = errors.New("treasury operation re-entered from a payment callback")
	ErrInvalidInput     = errors.New("treasury input is invalid")
)
