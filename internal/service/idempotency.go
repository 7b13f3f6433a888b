package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pesaflow/internal/models"
)

// IdempotencyStore is the persistence behind the guard. A Get error means
// the store is unavailable, not that the key is absent.
type IdempotencyStore interface {
	Get(fingerprint string) (*models.IdempotencyRecord, error)
	Put(rec *models.IdempotencyRecord) error
}

// IdempotencyGuard deduplicates retried requests by fingerprint. Check
// surfaces store failures so the call site can make the fail-open decision
// explicitly; Store is best-effort and only logs.
type IdempotencyGuard struct {
	store IdempotencyStore
	ttl   time.Duration
}

func NewIdempotencyGuard(store IdempotencyStore, ttl time.Duration) *IdempotencyGuard {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyGuard{store: store, ttl: ttl}
}

// Fingerprint derives the dedup key from everything that identifies a
// request: retried identical requests collide, different ones never do. The
// body is canonicalized through its JSON encoding (struct field order is
// deterministic).
func Fingerprint(merchantID uint, method, path string, body interface{}) string {
	raw, _ := json.Marshal(body)
	h := sha256.New()
	fmt.Fprintf(h, "%d\n%s\n%s\n", merchantID, method, path)
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}

func (g *IdempotencyGuard) Check(fingerprint string) (*models.IdempotencyRecord, error) {
	return g.store.Get(fingerprint)
}

func (g *IdempotencyGuard) Store(fingerprint string, merchantID uint, method, path string, status int, body []byte) {
	rec := &models.IdempotencyRecord{
		Fingerprint:    fingerprint,
		MerchantID:     merchantID,
		Method:         method,
		Path:           path,
		ResponseStatus: status,
		ResponseBody:   string(body),
		ExpiresAt:      time.Now().Add(g.ttl),
	}
	if err := g.store.Put(rec); err != nil {
		log.Printf("[IDEMPOTENCY] store failed for %s: %v", fingerprint[:12], err)
	}
}
