package repository

import "errors"

// ErrInvalidName rejects names the store cannot key on.
var ErrInvalidName = errors.New("invalid name")
