// Package validation holds the pure ledger entry validators. Nothing in
// this package touches storage; every function inspects its arguments and
// returns a domain error or nil.
package validation

import (
	"handy/internal/errors"
	"handy/internal/models"

	"github.com/shopspring/decimal"
)

// Amount rejects zero and negative amounts.
func Amount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidAmount
	}
	return nil
}

// SufficientBalance rejects a debit that exceeds the wallet's available
// balance. Required before any withdrawal or charge debit.
func SufficientBalance(wallet *models.Wallet, amount decimal.Decimal) error {
	if wallet == nil {
		return errors.ErrNotFound
	}
	if wallet.AvailableBalance.LessThan(amount) {
		return errors.ErrInsufficientBalance
	}
	return nil
}

// transactionStatusRank orders the one-way transaction status machine:
// pending -> processing -> accepted -> {completed | rejected | cancelled}.
var transactionStatusRank = map[string]int{
	models.TransactionStatusPending:    0,
	models.TransactionStatusProcessing: 1,
	models.TransactionStatusAccepted:   2,
	models.TransactionStatusCompleted:  3,
	models.TransactionStatusRejected:   3,
	models.TransactionStatusCancelled:  3,
}

// TransactionTransition enforces one-way movement through the transaction
// status machine. Terminal statuses permit no further writes; skipping
// forward (e.g. a pending withdrawal completing in one step) is legal,
// moving backward never is.
func TransactionTransition(oldStatus, newStatus string) error {
	if models.TransactionStatusIsTerminal(oldStatus) {
		return errors.ErrIllegalTransition
	}
	oldRank, okOld := transactionStatusRank[oldStatus]
	newRank, okNew := transactionStatusRank[newStatus]
	if !okOld || !okNew || newRank <= oldRank {
		return errors.ErrIllegalTransition
	}
	return nil
}

// ChargeTransition enforces the charge status machine:
// init -> pending -> completed, strictly forward. Completed is terminal and
// a write to the same status is rejected, so replays surface as errors
// instead of silent double-applies.
func ChargeTransition(oldStatus, newStatus string) error {
	if oldStatus == models.ChargeStatusCompleted {
		return errors.ErrIllegalTransition
	}
	if newStatus == oldStatus {
		return errors.ErrIllegalTransition
	}
	switch oldStatus {
	case models.ChargeStatusInit:
		switch newStatus {
		case models.ChargeStatusPending, models.ChargeStatusCompleted:
			return nil
		}
	case models.ChargeStatusPending:
		if newStatus == models.ChargeStatusCompleted {
			return nil
		}
	}
	return errors.ErrIllegalTransition
}
