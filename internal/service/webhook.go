package service

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"pesaflow/internal/domain"
	"pesaflow/internal/models"
)

type WebhookStore interface {
	ListActiveByMerchant(merchantID uint) ([]models.Webhook, error)
	CreateAttempt(a *models.WebhookDeliveryAttempt) error
}

// retryBackoff is the proposed wait recorded on a failed attempt. The retry
// worker consuming FAILED rows runs as a separate process.
const retryBackoff = 5 * time.Minute

// WebhookDispatcher signs and POSTs event payloads to every active endpoint
// a merchant has subscribed for the event. Failures are recorded, never
// thrown: a dispatch problem must not fail the payment path.
type WebhookDispatcher struct {
	store  WebhookStore
	client *http.Client
}

func NewWebhookDispatcher(store WebhookStore, timeout time.Duration) *WebhookDispatcher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &WebhookDispatcher{
		store:  store,
		client: &http.Client{Timeout: timeout},
	}
}

// Sign computes the hex HMAC-SHA256 of the exact serialized payload. An
// endpoint without a secret gets an empty signature.
func Sign(secret string, body []byte) string {
	if secret == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (d *WebhookDispatcher) DispatchEvent(merchantID uint, eventType string, payload interface{}) {
	hooks, err := d.store.ListActiveByMerchant(merchantID)
	if err != nil {
		log.Printf("[WEBHOOK] loading endpoints for merchant %d failed: %v", merchantID, err)
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WEBHOOK] marshal %s payload failed: %v", eventType, err)
		return
	}
	for i := range hooks {
		if !hooks[i].SubscribesTo(eventType) {
			continue
		}
		d.deliver(&hooks[i], eventType, body)
	}
}

func (d *WebhookDispatcher) deliver(hook *models.Webhook, eventType string, body []byte) {
	attempt := &models.WebhookDeliveryAttempt{
		WebhookID:     hook.ID,
		EventType:     eventType,
		Payload:       string(body),
		AttemptNumber: 1,
	}
	req, err := http.NewRequest(http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		d.recordFailure(attempt, 0, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", Sign(hook.Secret, body))
	req.Header.Set("X-Webhook-Event", eventType)
	resp, err := d.client.Do(req)
	if err != nil {
		d.recordFailure(attempt, 0, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		d.recordFailure(attempt, resp.StatusCode, nil)
		return
	}
	now := time.Now()
	attempt.Status = domain.DeliveryStatusSuccess
	attempt.ResponseStatus = resp.StatusCode
	attempt.DeliveredAt = &now
	if err := d.store.CreateAttempt(attempt); err != nil {
		log.Printf("[WEBHOOK] recording delivery for webhook %d failed: %v", hook.ID, err)
	}
}

func (d *WebhookDispatcher) recordFailure(attempt *models.WebhookDeliveryAttempt, status int, cause error) {
	retryAt := time.Now().Add(retryBackoff)
	attempt.Status = domain.DeliveryStatusFailed
	attempt.ResponseStatus = status
	attempt.NextRetryAt = &retryAt
	if cause != nil {
		log.Printf("[WEBHOOK] delivery to webhook %d failed: %v", attempt.WebhookID, cause)
	} else {
		log.Printf("[WEBHOOK] webhook %d answered %d", attempt.WebhookID, status)
	}
	if err := d.store.CreateAttempt(attempt); err != nil {
		log.Printf("[WEBHOOK] recording failed attempt for webhook %d failed: %v", attempt.WebhookID, err)
	}
}
