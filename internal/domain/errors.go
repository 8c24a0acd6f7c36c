package domain

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMediaTooLong      = errors.New("media too long")
	ErrEmptySequence     = errors.New("empty frame sequence")
	ErrDecode            = errors.New("decode failure")
	ErrScoringEngine     = errors.New("scoring engine failure")
	ErrNotFound          = errors.New("not found")
	ErrDuplicateID       = errors.New("duplicate job id")
	ErrInvalidTransition = errors.New("invalid job transition")
)
