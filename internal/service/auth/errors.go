package auth

import (
	"errors"
	"fmt"

	"github.com/phrazzld/alfa-api/internal/domain"
)

// Authentication errors. Every token failure matches domain.ErrInvalidToken
// so callers cannot tell an expired token from a forged one.
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match.
	ErrInvalidToken = domain.ErrInvalidToken

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = fmt.Errorf("%w: expired", domain.ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = fmt.Errorf("%w: missing", domain.ErrInvalidToken)

	// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
	ErrPasswordTooLong = fmt.Errorf("%w: password exceeds %d bytes", domain.ErrInvalidInput, MaxPasswordBytes)

	// ErrPasswordMismatch is returned by Compare when the password is wrong.
	ErrPasswordMismatch = errors.New("password does not match")
)
