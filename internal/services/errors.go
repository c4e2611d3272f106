package services

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes with errors.Is.
var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrSelfDelete    = errors.New("cannot delete your own account")
	ErrLastAdmin     = errors.New("cannot delete the last administrator account")
	ErrUnavailable   = errors.New("database unavailable")
)

// wrapDB tags connection-level database failures with ErrUnavailable so that
// handlers can answer 503 instead of a generic 500. Query-shaped errors pass
// through untouched.
func wrapDB(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
