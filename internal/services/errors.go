package services

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// statuses with errors.Is; anything unmatched becomes a 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailUnverified    = errors.New("please verify your email")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrForbidden          = errors.New("not allowed")
)
