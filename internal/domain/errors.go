package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrAccountNotFound      = errors.New("account not found")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileUnavailable   = errors.New("profile temporarily unavailable")
	ErrProfileAlreadyExists = errors.New("profile already exists")

	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	ErrRequestNotFound      = errors.New("match request not found")
	ErrRequestAlreadyExists = errors.New("active match request already exists")
	ErrRequestNotPending    = errors.New("match request is not pending")
	ErrCannotRequestSelf    = errors.New("cannot send a request to yourself")
	ErrMatchNotFound        = errors.New("match not found")
	ErrAlreadyMatched       = errors.New("pair is already matched")
	ErrMatchInactive        = errors.New("match is no longer active")
	ErrRevealNotFound       = errors.New("photo reveal request not found")
	ErrRevealAlreadyExists  = errors.New("photo reveal request already exists")
)
