package mpesa

import (
	"encoding/json"
	"fmt"
)

// StkCallback is the asynchronous result the provider posts after an STK
// push resolves. ResultCode 0 means the payer authorized the debit; the field
// is a pointer so an absent code is distinguishable from an explicit 0.
type StkCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        *int              `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata"`
}

// CallbackMetadata is the provider's loose name/value item list. Values are
// mixed-type on the wire (strings and numbers), so they stay interface{} and
// are scanned by well-known key.
type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

type callbackEnvelope struct {
	Body struct {
		StkCallback *StkCallback `json:"stkCallback"`
	} `json:"Body"`
}

// ParseCallback validates the nested callback envelope. A payload without a
// stkCallback body, tracking id, or result code is rejected.
func ParseCallback(raw []byte) (*StkCallback, error) {
	var env callbackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid callback json: %w", err)
	}
	cb := env.Body.StkCallback
	if cb == nil {
		return nil, fmt.Errorf("missing stkCallback body")
	}
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("missing CheckoutRequestID")
	}
	if cb.ResultCode == nil {
		return nil, fmt.Errorf("missing ResultCode")
	}
	return cb, nil
}

// Receipt returns the settlement receipt token from the metadata item list.
func (m *CallbackMetadata) Receipt() string {
	if m == nil {
		return ""
	}
	for _, item := range m.Item {
		if item.Name == "MpesaReceiptNumber" {
			if s, ok := item.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}
