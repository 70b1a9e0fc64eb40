package domain

import "errors"

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrInvalidTitle  = errors.New("invalid title")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrEmptyPatch    = errors.New("empty patch")
)
