package errorvalues

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrProfileNotFound  = errors.New("profile doesn't exist")
	ErrProfileExists    = errors.New("profile already exists")
	ErrBadgeNotFound    = errors.New("badge doesn't exist")
	ErrPersistence      = errors.New("persistence error")
	ErrNetwork          = errors.New("network error")
	ErrPermissionDenied = errors.New("notification permission not granted")
	ErrInvalidToken     = errors.New("invalid token")
	ErrRemote           = errors.New("remote api error")
)
