package shared

import (
	"errors"

	"github.com/informreaders/portal/internal/platform/httpx"
)

// ErrNotFound is shared with httpx so a missing admin user renders as a 404.
var ErrNotFound = httpx.ErrNotFound

var (
	// ErrInvalidCredentials covers unknown emails, wrong passwords and
	// disabled accounts alike.
	ErrInvalidCredentials = errors.New("shared: email or password is incorrect")
	ErrCSRFTokenMissing   = errors.New("shared: csrf token missing")
	ErrCSRFTokenMismatch  = errors.New("shared: csrf token does not match the session")
)
