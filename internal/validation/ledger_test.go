package validation

import (
	"testing"

	"handy/internal/errors"
	"handy/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr error
	}{
		{"positive amount", decimal.NewFromInt(100), nil},
		{"tiny positive amount", decimal.NewFromFloat(0.00000001), nil},
		{"zero amount", decimal.Zero, errors.ErrInvalidAmount},
		{"negative amount", decimal.NewFromInt(-1), errors.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Amount(tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSufficientBalance(t *testing.T) {
	wallet := &models.Wallet{AvailableBalance: decimal.NewFromInt(50)}

	t.Run("nil wallet", func(t *testing.T) {
		assert.ErrorIs(t, SufficientBalance(nil, decimal.NewFromInt(1)), errors.ErrNotFound)
	})

	t.Run("exact balance is sufficient", func(t *testing.T) {
		assert.NoError(t, SufficientBalance(wallet, decimal.NewFromInt(50)))
	})

	t.Run("one over is insufficient", func(t *testing.T) {
		assert.ErrorIs(t, SufficientBalance(wallet, decimal.NewFromInt(51)), errors.ErrInsufficientBalance)
	})

	t.Run("pending balance does not count", func(t *testing.T) {
		w := &models.Wallet{
			AvailableBalance: decimal.Zero,
			PendingBalance:   decimal.NewFromInt(100),
		}
		assert.ErrorIs(t, SufficientBalance(w, decimal.NewFromInt(10)), errors.ErrInsufficientBalance)
	})
}

func TestTransactionTransition(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		new     string
		wantErr bool
	}{
		{"pending to processing", models.TransactionStatusPending, models.TransactionStatusProcessing, false},
		{"pending to completed", models.TransactionStatusPending, models.TransactionStatusCompleted, false},
		{"pending to rejected", models.TransactionStatusPending, models.TransactionStatusRejected, false},
		{"processing to accepted", models.TransactionStatusProcessing, models.TransactionStatusAccepted, false},
		{"processing to cancelled", models.TransactionStatusProcessing, models.TransactionStatusCancelled, false},
		{"accepted to completed", models.TransactionStatusAccepted, models.TransactionStatusCompleted, false},
		{"same status", models.TransactionStatusPending, models.TransactionStatusPending, true},
		{"backward move", models.TransactionStatusProcessing, models.TransactionStatusPending, true},
		{"completed is terminal", models.TransactionStatusCompleted, models.TransactionStatusPending, true},
		{"rejected is terminal", models.TransactionStatusRejected, models.TransactionStatusCompleted, true},
		{"cancelled is terminal", models.TransactionStatusCancelled, models.TransactionStatusProcessing, true},
		{"unknown old status", "bogus", models.TransactionStatusCompleted, true},
		{"unknown new status", models.TransactionStatusPending, "bogus", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TransactionTransition(tt.old, tt.new)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrIllegalTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChargeTransition(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		new     string
		wantErr bool
	}{
		{"init to pending", models.ChargeStatusInit, models.ChargeStatusPending, false},
		{"init to completed", models.ChargeStatusInit, models.ChargeStatusCompleted, false},
		{"pending to completed", models.ChargeStatusPending, models.ChargeStatusCompleted, false},
		{"init to init", models.ChargeStatusInit, models.ChargeStatusInit, true},
		{"pending to pending", models.ChargeStatusPending, models.ChargeStatusPending, true},
		{"pending back to init", models.ChargeStatusPending, models.ChargeStatusInit, true},
		{"completed is terminal", models.ChargeStatusCompleted, models.ChargeStatusPending, true},
		{"completed to completed", models.ChargeStatusCompleted, models.ChargeStatusCompleted, true},
		{"unknown status", models.ChargeStatusInit, "bogus", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ChargeTransition(tt.old, tt.new)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrIllegalTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
