package errors

import "errors"

var (
	ErrAssetNotFound   = errors.New("asset not found")
	ErrAlreadyMinted   = errors.New("asset id is already minted")
	ErrNotOwner        = errors.New("caller is not the current asset owner")
	ErrIndexOutOfRange = errors.New("owner enumeration index out of range")
	ErrInvalidInput    = errors.New("asset registry input is invalid")
)
