package model

import "errors"

// Store-level failure taxonomy. Usecase packages re-export the subset they
// can return, so errors.Is matches across the shared session driver.
var (
	ErrNotFound      = errors.New("no such resource")
	ErrCodeConflict  = errors.New("code conflict")
	ErrInvalidPhase  = errors.New("operation not legal in current phase")
	ErrPhaseConflict = errors.New("phase changed concurrently")
	ErrForbidden     = errors.New("not a participant of this session")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidChoice = errors.New("title is not a finalist")
	ErrNotEnough     = errors.New("not enough participants joined")
	ErrUnavailable   = errors.New("store unreachable")
)
