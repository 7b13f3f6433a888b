package service

import (
	"context"
	"sync"
	"time"

	"pesaflow/internal/domain"
	"pesaflow/internal/models"
	"pesaflow/pkg/mpesa"
)

type fakeMerchantStore struct {
	merchants map[uint]*models.Merchant
}

func (s *fakeMerchantStore) GetByID(id uint) (*models.Merchant, error) {
	return s.merchants[id], nil
}

type fakeChannelStore struct {
	channels map[uint]*models.Channel
}

func (s *fakeChannelStore) GetActiveForMerchant(merchantID, channelID uint) (*models.Channel, error) {
	ch := s.channels[channelID]
	if ch == nil || ch.MerchantID != merchantID || !ch.IsActive {
		return nil, nil
	}
	return ch, nil
}

type fakeIntentStore struct {
	mu      sync.Mutex
	nextID  uint
	intents map[uint]*models.PaymentIntent
}

func newFakeIntentStore() *fakeIntentStore {
	return &fakeIntentStore{intents: make(map[uint]*models.PaymentIntent)}
}

func (s *fakeIntentStore) Create(p *models.PaymentIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	cp := *p
	s.intents[p.ID] = &cp
	return nil
}

func (s *fakeIntentStore) Update(p *models.PaymentIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.intents[p.ID] = &cp
	return nil
}

func (s *fakeIntentStore) GetByProviderRef(ref string) (*models.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.intents {
		if p.ProviderRef != nil && *p.ProviderRef == ref {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeIntentStore) GetForMerchant(id, merchantID uint) (*models.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.intents[id]
	if p == nil || p.MerchantID != merchantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *fakeIntentStore) MarkResolved(id uint, status, metadata string, completedAt *time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.intents[id]
	if p == nil || domain.IsTerminal(p.Status) {
		return false, nil
	}
	p.Status = status
	p.Metadata = metadata
	p.CompletedAt = completedAt
	return true, nil
}

func (s *fakeIntentStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.intents)
}

type fakeIdempotencyStore struct {
	mu      sync.Mutex
	records map[string]*models.IdempotencyRecord
	getErr  error
	putErr  error
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: make(map[string]*models.IdempotencyRecord)}
}

func (s *fakeIdempotencyStore) Get(fingerprint string) (*models.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.records[fingerprint], nil
}

func (s *fakeIdempotencyStore) Put(rec *models.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	if _, exists := s.records[rec.Fingerprint]; !exists {
		s.records[rec.Fingerprint] = rec
	}
	return nil
}

type fakeUsageStore struct {
	mu     sync.Mutex
	counts map[uint]int64
	totals map[uint]float64
	err    error
}

func newFakeUsageStore() *fakeUsageStore {
	return &fakeUsageStore{counts: make(map[uint]int64), totals: make(map[uint]float64)}
}

func (s *fakeUsageStore) Increment(merchantID uint, amount float64, periodStart, periodEnd time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.counts[merchantID]++
	s.totals[merchantID] += amount
	return nil
}

func (s *fakeUsageStore) GetForPeriod(merchantID uint, periodStart time.Time) (*models.UsageCounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	n, ok := s.counts[merchantID]
	if !ok {
		return nil, nil
	}
	return &models.UsageCounter{
		MerchantID:       merchantID,
		PeriodStart:      periodStart,
		TransactionCount: n,
		TotalAmount:      s.totals[merchantID],
	}, nil
}

type fakeGateway struct {
	mu    sync.Mutex
	calls []mpesa.STKPushRequest
	resp  *mpesa.STKPushResponse
	err   error
}

func (g *fakeGateway) STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return g.resp, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeWalletStore struct {
	mu      sync.Mutex
	wallets map[uint]*models.WalletAccount
	entries []*models.WalletLedgerEntry
	nextID  uint
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{wallets: make(map[uint]*models.WalletAccount)}
}

func (s *fakeWalletStore) GetOrCreate(merchantID uint) (*models.WalletAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[merchantID]
	if !ok {
		s.nextID++
		w = &models.WalletAccount{ID: s.nextID, MerchantID: merchantID, Currency: "KES"}
		s.wallets[merchantID] = w
	}
	cp := *w
	return &cp, nil
}

func (s *fakeWalletStore) DebitIfSufficient(merchantID uint, amount float64) (bool, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[merchantID]
	if !ok {
		return false, 0, nil
	}
	if w.Balance < amount {
		return false, w.Balance, nil
	}
	w.Balance -= amount
	return true, w.Balance, nil
}

func (s *fakeWalletStore) ForceDebit(merchantID uint, amount float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[merchantID]
	if !ok {
		w = &models.WalletAccount{MerchantID: merchantID}
		s.wallets[merchantID] = w
	}
	w.Balance -= amount
	return w.Balance, nil
}

func (s *fakeWalletStore) Credit(merchantID uint, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[merchantID]
	if !ok {
		w = &models.WalletAccount{MerchantID: merchantID}
		s.wallets[merchantID] = w
	}
	w.Balance += amount
	return nil
}

func (s *fakeWalletStore) CreateEntry(e *models.WalletLedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *fakeWalletStore) balance(merchantID uint) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wallets[merchantID]; ok {
		return w.Balance
	}
	return 0
}

type fakeWebhookStore struct {
	mu       sync.Mutex
	hooks    []models.Webhook
	attempts []*models.WebhookDeliveryAttempt
}

func (s *fakeWebhookStore) ListActiveByMerchant(merchantID uint) ([]models.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Webhook
	for _, h := range s.hooks {
		if h.MerchantID == merchantID && h.IsActive {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeWebhookStore) CreateAttempt(a *models.WebhookDeliveryAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, a)
	return nil
}

type dispatchedEvent struct {
	merchantID uint
	eventType  string
	payload    interface{}
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []dispatchedEvent
}

func (d *fakeDispatcher) DispatchEvent(merchantID uint, eventType string, payload interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, dispatchedEvent{merchantID, eventType, payload})
}

type feeDebit struct {
	merchantID uint
	amount     float64
	reference  string
}

type fakeFeeLedger struct {
	mu     sync.Mutex
	debits []feeDebit
}

func (l *fakeFeeLedger) DebitFee(merchantID uint, txAmount float64, reference string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debits = append(l.debits, feeDebit{merchantID, txAmount, reference})
	return nil
}
