package errors

import "errors"

var (
	ErrUnauthorized        = errors.New("caller is not the marketplace administrator")
	ErrNotForSale          = errors.New("no valid sale offer exists for the asset")
	ErrAlreadyMinted       = errors.New("asset id is already minted")
	ErrInsufficientPayment = errors.New("attached value is below the mint price")
	ErrWrongPayment        = errors.New("attached value must equal the listing price exactly")
	ErrInvalidPrice        = errors.New("listing price must be positive")
	ErrNotOwner            = errors.New("caller is not the current asset owner")
	ErrReentrant           = errors.New("guarded operation re-entered during its own execution")
	ErrTransferFailed      = errors.New("outgoing monetary transfer did not succeed")
	ErrInvalidInput        = errors.New("marketplace input is invalid")
)
