package domain

const (
	IntentStatusInitiated = "INITIATED"
	IntentStatusStkSent   = "STK_SENT"
	IntentStatusCompleted = "COMPLETED"
	IntentStatusFailed    = "FAILED"
	IntentStatusRefunded  = "REFUNDED"
)

// IsTerminal reports whether an intent status may no longer change.
func IsTerminal(status string) bool {
	switch status {
	case IntentStatusCompleted, IntentStatusFailed, IntentStatusRefunded:
		return true
	}
	return false
}

const (
	MerchantStatusActive    = "ACTIVE"
	MerchantStatusPending   = "PENDING"    // registered, no KYC documents yet
	MerchantStatusKYCReview = "KYC_REVIEW" // documents submitted, awaiting review
	MerchantStatusSuspended = "SUSPENDED"
	MerchantStatusRejected  = "REJECTED"
)

const (
	ChannelTypeTill    = "TILL"
	ChannelTypePaybill = "PAYBILL"
	ChannelTypeBank    = "BANK"
)

const (
	LedgerTypeTopup  = "TOPUP"
	LedgerTypeFee    = "FEE"
	LedgerTypeBonus  = "BONUS"
	LedgerTypeRefund = "REFUND"
)

const (
	DeliveryStatusSuccess = "SUCCESS"
	DeliveryStatusFailed  = "FAILED"
)

const (
	EventTransactionUpdated = "transaction.updated"
	EventWildcard           = "*"
)

// UnlimitedTxLimit marks a plan with no monthly transaction cap.
const UnlimitedTxLimit = -1
