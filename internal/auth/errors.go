package auth

import "errors"

var (
	ErrInvalidToken   = errors.New("auth: invalid token")
	ErrRevokedToken   = errors.New("auth: token has been revoked")
	ErrSigningMethod  = errors.New("auth: unexpected signing method")
	ErrMissingSubject = errors.New("auth: token carries no user id")
)
