package errors

// Ledger error kinds. All four are per-request validation failures: they are
// returned synchronously and never leave partial state behind.
var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
	}
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient available balance",
	}
	ErrIllegalTransition = &DomainError{
		Code:    "ILLEGAL_TRANSITION",
		Message: "status transition is not allowed",
	}
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "record not found",
	}
)
