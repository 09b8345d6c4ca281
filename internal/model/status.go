package model

import "github.com/shopspring/decimal"

// LPOStatus tracks the delivery side of an LPO's lifecycle.
// The only legal transition is pending → delivered; delivered is terminal.
type LPOStatus string

const (
	LPOStatusPending   LPOStatus = "pending"
	LPOStatusDelivered LPOStatus = "delivered"
)

// PaymentStatus is the tri-state payment progress of an LPO or Invoice.
// It is always derived from amountPaid/totalAmount, never set directly,
// and is monotonic as long as amountPaid only grows.
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// PaymentMode enumerates the accepted payment channels.
type PaymentMode string

const (
	PaymentModeCash  PaymentMode = "cash"
	PaymentModeMpesa PaymentMode = "mpesa"
	PaymentModeBank  PaymentMode = "bank"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeMpesa, PaymentModeBank:
		return true
	}
	return false
}

// Epsilon absorbs rounding drift when comparing monetary amounts.
// Balances whose magnitude falls below it are treated as settled.
var Epsilon = decimal.New(1, -2) // 0.01

// DerivePaymentStatus applies the tri-state rule:
// amountPaid == 0 → unpaid; 0 < amountPaid < total → partial;
// amountPaid ≥ total (within Epsilon) → paid.
func DerivePaymentStatus(amountPaid, totalAmount decimal.Decimal) PaymentStatus {
	if amountPaid.GreaterThanOrEqual(totalAmount.Sub(Epsilon)) && totalAmount.GreaterThan(decimal.Zero) {
		return PaymentStatusPaid
	}
	if amountPaid.GreaterThan(decimal.Zero) {
		return PaymentStatusPartial
	}
	return PaymentStatusUnpaid
}

// ClampBalance collapses a residual balance within Epsilon of zero to
// exactly zero so settled documents never show -0.004 style remainders.
// The bound is inclusive to match DerivePaymentStatus: a document whose
// remainder is exactly Epsilon is paid, so its balance must clamp too.
func ClampBalance(balance decimal.Decimal) decimal.Decimal {
	if balance.Abs().LessThanOrEqual(Epsilon) {
		return decimal.Zero
	}
	return balance
}
