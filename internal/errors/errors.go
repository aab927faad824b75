// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrLeadNotFound is a sentinel error
type ErrLeadNotFound struct {
    LeadID int
}

func (e *ErrLeadNotFound) Error() string {
    return fmt.Sprintf("lead with ID %d not found", e.LeadID)
}

// Helper constructor
func NewLeadNotFound(id int) error {
    return &ErrLeadNotFound{LeadID: id}
}

// ErrMissingCredentials aborts a run before any send attempt.
var ErrMissingCredentials = errors.New("SMTP_EMAIL or SMTP_PASSWORD not configured")

// ErrSMTPAuth wraps an authentication rejection from the SMTP server.
// Fatal for the whole run: no further sends are possible on this connection.
type ErrSMTPAuth struct {
    Err error
}

func (e *ErrSMTPAuth) Error() string {
    return fmt.Sprintf("SMTP authentication failed: %v", e.Err)
}

func (e *ErrSMTPAuth) Unwrap() error {
    return e.Err
}

func NewSMTPAuth(err error) error {
    return &ErrSMTPAuth{Err: err}
}

// IsAuth reports whether err is (or wraps) an SMTP authentication failure.
func IsAuth(err error) bool {
    var authErr *ErrSMTPAuth
    return errors.As(err, &authErr)
}
