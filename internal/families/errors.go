package families

import "errors"

var (
	ErrNotFound          = errors.New("family not found")
	ErrInvalidInput      = errors.New("invalid family input")
	ErrInvalidTransition = errors.New("invalid family status transition")
)
