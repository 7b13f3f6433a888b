package service

import (
	"fmt"
	"testing"

	"pesaflow/internal/domain"
	"pesaflow/internal/models"
)

func testProcessor() (*CallbackProcessor, *fakeIntentStore, *fakeFeeLedger, *fakeDispatcher) {
	intents := newFakeIntentStore()
	ledger := &fakeFeeLedger{}
	dispatcher := &fakeDispatcher{}
	return NewCallbackProcessor(intents, ledger, dispatcher), intents, ledger, dispatcher
}

func stkSentIntent(intents *fakeIntentStore, ref string) *models.PaymentIntent {
	p := &models.PaymentIntent{
		MerchantID:  1,
		Amount:      1000,
		Status:      domain.IntentStatusStkSent,
		ProviderRef: &ref,
	}
	intents.Create(p)
	return p
}

func callbackJSON(ref string, resultCode int, receipt string) []byte {
	meta := ""
	if receipt != "" {
		meta = fmt.Sprintf(`,"CallbackMetadata":{"Item":[{"Name":"MpesaReceiptNumber","Value":%q}]}`, receipt)
	}
	return []byte(fmt.Sprintf(
		`{"Body":{"stkCallback":{"CheckoutRequestID":%q,"ResultCode":%d,"ResultDesc":"desc"%s}}}`,
		ref, resultCode, meta))
}

func TestProcessSuccessCompletesIntent(t *testing.T) {
	p, intents, ledger, dispatcher := testProcessor()
	intent := stkSentIntent(intents, "ws_CO_1")

	p.Process(callbackJSON("ws_CO_1", 0, "NLJ7RT61SV"))

	got, _ := intents.GetForMerchant(intent.ID, 1)
	if got.Status != domain.IntentStatusCompleted {
		t.Errorf("status = %q, want COMPLETED", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
	if len(ledger.debits) != 1 || ledger.debits[0].amount != 1000 {
		t.Errorf("fee debit not triggered: %+v", ledger.debits)
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("%d events dispatched, want 1", len(dispatcher.events))
	}
	ev := dispatcher.events[0]
	if ev.eventType != domain.EventTransactionUpdated || ev.merchantID != 1 {
		t.Errorf("event = %+v", ev)
	}
	payload := ev.payload.(TransactionUpdatedPayload)
	if payload.Receipt != "NLJ7RT61SV" || payload.Status != domain.IntentStatusCompleted {
		t.Errorf("payload = %+v", payload)
	}
}

func TestProcessFailureMarksFailed(t *testing.T) {
	p, intents, ledger, dispatcher := testProcessor()
	intent := stkSentIntent(intents, "ws_CO_2")

	p.Process(callbackJSON("ws_CO_2", 1032, ""))

	got, _ := intents.GetForMerchant(intent.ID, 1)
	if got.Status != domain.IntentStatusFailed {
		t.Errorf("status = %q, want FAILED", got.Status)
	}
	if len(ledger.debits) != 0 {
		t.Error("fee debited for a failed payment")
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("%d events dispatched, want 1", len(dispatcher.events))
	}
	if payload := dispatcher.events[0].payload.(TransactionUpdatedPayload); payload.Status != domain.IntentStatusFailed {
		t.Errorf("payload = %+v", payload)
	}
}

func TestProcessMalformedPayloadDropped(t *testing.T) {
	p, intents, ledger, dispatcher := testProcessor()
	intent := stkSentIntent(intents, "ws_CO_3")

	p.Process([]byte(`{"no":"envelope"}`))
	p.Process([]byte(`garbage`))

	got, _ := intents.GetForMerchant(intent.ID, 1)
	if got.Status != domain.IntentStatusStkSent {
		t.Errorf("intent mutated by malformed callback: %q", got.Status)
	}
	if len(dispatcher.events) != 0 || len(ledger.debits) != 0 {
		t.Error("side effects ran for malformed callback")
	}
}

// A payload carrying a known tracking id but no result code must not resolve
// the intent; absent must never read as authorization.
func TestProcessMissingResultCodeDropped(t *testing.T) {
	p, intents, ledger, dispatcher := testProcessor()
	intent := stkSentIntent(intents, "ws_CO_99")

	p.Process([]byte(`{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_99","ResultDesc":"no code"}}}`))

	got, _ := intents.GetForMerchant(intent.ID, 1)
	if got.Status != domain.IntentStatusStkSent {
		t.Errorf("intent resolved without a result code: %q", got.Status)
	}
	if len(ledger.debits) != 0 || len(dispatcher.events) != 0 {
		t.Error("side effects ran for a callback without a result code")
	}
}

func TestProcessUnknownRefDropped(t *testing.T) {
	p, _, ledger, dispatcher := testProcessor()

	p.Process(callbackJSON("ws_CO_missing", 0, "RCPT"))

	if len(dispatcher.events) != 0 || len(ledger.debits) != 0 {
		t.Error("side effects ran for unknown provider ref")
	}
}

func TestProcessDuplicateCallbackIsNoOp(t *testing.T) {
	p, intents, ledger, dispatcher := testProcessor()
	intent := stkSentIntent(intents, "ws_CO_4")

	p.Process(callbackJSON("ws_CO_4", 0, "RCPT-1"))
	first, _ := intents.GetForMerchant(intent.ID, 1)
	completedAt := first.CompletedAt

	// same providerRef delivered twice yields one state change
	p.Process(callbackJSON("ws_CO_4", 1032, ""))

	second, _ := intents.GetForMerchant(intent.ID, 1)
	if second.Status != domain.IntentStatusCompleted {
		t.Errorf("terminal state overwritten: %q", second.Status)
	}
	if second.CompletedAt == nil || completedAt == nil || !second.CompletedAt.Equal(*completedAt) {
		t.Error("CompletedAt changed on duplicate callback")
	}
	if len(ledger.debits) != 1 {
		t.Errorf("%d fee debits, want 1", len(ledger.debits))
	}
	if len(dispatcher.events) != 1 {
		t.Errorf("%d events dispatched, want 1", len(dispatcher.events))
	}
}

func TestProcessRefundedIntentUntouched(t *testing.T) {
	p, intents, _, dispatcher := testProcessor()
	ref := "ws_CO_5"
	intent := &models.PaymentIntent{MerchantID: 1, Amount: 500, Status: domain.IntentStatusRefunded, ProviderRef: &ref}
	intents.Create(intent)

	p.Process(callbackJSON(ref, 0, "RCPT"))

	got, _ := intents.GetForMerchant(intent.ID, 1)
	if got.Status != domain.IntentStatusRefunded {
		t.Errorf("refunded intent mutated: %q", got.Status)
	}
	if len(dispatcher.events) != 0 {
		t.Error("event dispatched for refunded intent")
	}
}
