package domain

import "errors"

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrInvalidPropertyData = errors.New("invalid property data")
)
