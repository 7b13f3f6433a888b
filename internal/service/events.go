package service

// TransactionUpdatedPayload is the "transaction.updated" event body.
type TransactionUpdatedPayload struct {
	TransactionID uint    `json:"transaction_id"`
	Status        string  `json:"status"`
	Receipt       string  `json:"receipt,omitempty"`
	Amount        float64 `json:"amount"`
}
