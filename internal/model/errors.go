package model

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConfig     = errors.New("missing configuration")
	ErrUpstream   = errors.New("upstream failure")
)
