// Package errors defines the domain error type shared across services.
package errors

// DomainError is a recoverable, caller-facing error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
