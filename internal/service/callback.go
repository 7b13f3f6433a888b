package service

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pesaflow/internal/domain"
	"pesaflow/pkg/mpesa"
)

type Dispatcher interface {
	DispatchEvent(merchantID uint, eventType string, payload interface{})
}

type FeeLedger interface {
	DebitFee(merchantID uint, txAmount float64, reference string) error
}

// CallbackProcessor resolves payment intents from provider callbacks. It is
// invoked fire-and-forget behind an HTTP handler that has already
// acknowledged the provider, so nothing here propagates errors upward:
// malformed or unmatched callbacks are logged and dropped.
type CallbackProcessor struct {
	intents  IntentStore
	ledger   FeeLedger
	webhooks Dispatcher
}

func NewCallbackProcessor(intents IntentStore, ledger FeeLedger, webhooks Dispatcher) *CallbackProcessor {
	return &CallbackProcessor{intents: intents, ledger: ledger, webhooks: webhooks}
}

func (p *CallbackProcessor) Process(raw []byte) {
	cb, err := mpesa.ParseCallback(raw)
	if err != nil {
		log.Printf("[CALLBACK] dropping malformed payload: %v", err)
		return
	}
	intent, err := p.intents.GetByProviderRef(cb.CheckoutRequestID)
	if err != nil {
		log.Printf("[CALLBACK] intent lookup for %s failed: %v", cb.CheckoutRequestID, err)
		return
	}
	if intent == nil {
		log.Printf("[CALLBACK] no intent for checkout_request_id=%s, dropping", cb.CheckoutRequestID)
		return
	}
	if domain.IsTerminal(intent.Status) {
		log.Printf("[CALLBACK] intent %d already %s, ignoring duplicate", intent.ID, intent.Status)
		return
	}

	resultCode := *cb.ResultCode
	status := domain.IntentStatusFailed
	receipt := ""
	if resultCode == 0 {
		status = domain.IntentStatusCompleted
		receipt = cb.CallbackMetadata.Receipt()
	}
	meta, _ := json.Marshal(map[string]interface{}{
		"receipt":     receipt,
		"result_code": resultCode,
		"result_desc": cb.ResultDesc,
	})
	now := time.Now()
	updated, err := p.intents.MarkResolved(intent.ID, status, string(meta), &now)
	if err != nil {
		log.Printf("[CALLBACK] resolving intent %d failed: %v", intent.ID, err)
		return
	}
	if !updated {
		log.Printf("[CALLBACK] intent %d resolved concurrently, ignoring", intent.ID)
		return
	}
	log.Printf("[CALLBACK] intent %d -> %s (result_code=%d)", intent.ID, status, resultCode)

	if status == domain.IntentStatusCompleted {
		if err := p.ledger.DebitFee(intent.MerchantID, intent.Amount, fmt.Sprintf("intent-%d", intent.ID)); err != nil {
			log.Printf("[CALLBACK] fee debit for intent %d failed: %v", intent.ID, err)
		}
	}
	p.webhooks.DispatchEvent(intent.MerchantID, domain.EventTransactionUpdated, TransactionUpdatedPayload{
		TransactionID: intent.ID,
		Status:        status,
		Receipt:       receipt,
		Amount:        intent.Amount,
	})
}
