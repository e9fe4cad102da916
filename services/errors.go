package services

import "errors"

// Service errors. Controllers map these onto HTTP statuses; everything
// else bubbles up as an internal error.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotAParticipant = errors.New("user is not a participant in this conversation")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotAGroup       = errors.New("conversation is not a group")
	ErrValidation      = errors.New("validation failed")
)
