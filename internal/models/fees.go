package models

import "github.com/shopspring/decimal"

// DefaultFeeSchedule holds the platform's flat default fee per charge kind.
// Fee-triggering subsystems may pass an explicit amount; when they do not,
// the charge service falls back to this schedule.
var DefaultFeeSchedule = map[string]decimal.Decimal{
	FeeTypeListing:            decimal.NewFromFloat(2.50),
	FeeTypeTransaction:        decimal.NewFromFloat(1.00),
	FeeTypeProcessing:         decimal.NewFromFloat(0.30),
	FeeTypeDeposit:            decimal.NewFromFloat(0.50),
	FeeTypeCurrencyConversion: decimal.NewFromFloat(1.20),
	FeeTypeVATProcessing:      decimal.NewFromFloat(0.06),
	FeeTypeVATSellerServices:  decimal.NewFromFloat(0.20),
}

// DefaultFee returns the schedule amount for feeType, zero when unknown.
func DefaultFee(feeType string) decimal.Decimal {
	if amt, ok := DefaultFeeSchedule[feeType]; ok {
		return amt
	}
	return decimal.Zero
}
