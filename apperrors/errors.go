// Package apperrors defines the error taxonomy every boundary operation
// maps lower-level failures into before returning.
package apperrors

import (
	"fmt"
)

var (
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrNotAuthorized    = fmt.Errorf("not authorized")
	ErrNotFound         = fmt.Errorf("not found")
	ErrExpired          = fmt.Errorf("expired")
	ErrEmailMismatch    = fmt.Errorf("email mismatch")
	ErrConflict         = fmt.Errorf("conflict")
	ErrInfrastructure   = fmt.Errorf("infrastructure failure")
)

// Infrastructure wraps a store or transport error so callers can match on
// ErrInfrastructure while logs keep the underlying detail.
func Infrastructure(err error) error {
	return fmt.Errorf("%w: %v", ErrInfrastructure, err)
}
