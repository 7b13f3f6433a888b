package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pesaflow/internal/domain"
	"pesaflow/internal/models"
	"pesaflow/pkg/mpesa"
)

const bankSettlementDesc = "Bank settlement"

type MerchantStore interface {
	GetByID(id uint) (*models.Merchant, error)
}

type ChannelStore interface {
	GetActiveForMerchant(merchantID, channelID uint) (*models.Channel, error)
}

type IntentStore interface {
	Create(p *models.PaymentIntent) error
	Update(p *models.PaymentIntent) error
	GetByProviderRef(ref string) (*models.PaymentIntent, error)
	GetForMerchant(id, merchantID uint) (*models.PaymentIntent, error)
	MarkResolved(id uint, status, metadata string, completedAt *time.Time) (bool, error)
}

type Gateway interface {
	STKPush(ctx context.Context, req mpesa.STKPushRequest) (*mpesa.STKPushResponse, error)
}

type InitiateRequest struct {
	Phone       string  `json:"phone" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Reference   string  `json:"reference" binding:"required,max=255"`
	Description string  `json:"description"`
	ChannelID   *uint   `json:"channel_id"`
}

type InitiateResponse struct {
	TransactionID uint   `json:"transaction_id"`
	Status        string `json:"status"`
}

// PaymentOrchestrator is the synchronous initiation path: eligibility,
// settlement resolution, quota, dedup, provider call, intent persistence.
// The eventual outcome only arrives via the provider callback.
type PaymentOrchestrator struct {
	merchants MerchantStore
	channels  ChannelStore
	intents   IntentStore
	guard     *IdempotencyGuard
	usage     *UsageTracker
	gateway   Gateway
}

func NewPaymentOrchestrator(
	merchants MerchantStore,
	channels ChannelStore,
	intents IntentStore,
	guard *IdempotencyGuard,
	usage *UsageTracker,
	gateway Gateway,
) *PaymentOrchestrator {
	return &PaymentOrchestrator{
		merchants: merchants,
		channels:  channels,
		intents:   intents,
		guard:     guard,
		usage:     usage,
		gateway:   gateway,
	}
}

const initiatePath = "/payments/initiate"

// Initiate runs the collection flow. Side effects are ordered so a crash
// before the gateway call leaves only an INITIATED intent behind; a crash
// after a successful push but before persisting STK_SENT is the known unsafe
// window, left to reconciliation tooling.
func (o *PaymentOrchestrator) Initiate(ctx context.Context, merchantID uint, req InitiateRequest) (*InitiateResponse, error) {
	fp := Fingerprint(merchantID, "POST", initiatePath, req)
	if cached, err := o.guard.Check(fp); err != nil {
		log.Printf("[PAYMENT] idempotency check unavailable, failing open: %v", err)
	} else if cached != nil {
		var resp InitiateResponse
		if uerr := json.Unmarshal([]byte(cached.ResponseBody), &resp); uerr != nil {
			log.Printf("[PAYMENT] cached response unreadable, treating as new: %v", uerr)
		} else {
			log.Printf("[PAYMENT] replaying cached response for merchant=%d tx=%d", merchantID, resp.TransactionID)
			return &resp, nil
		}
	}

	merchant, err := o.merchants.GetByID(merchantID)
	if err != nil {
		return nil, fmt.Errorf("loading merchant %d: %w", merchantID, err)
	}
	if merchant == nil {
		return nil, domain.ErrMerchantNotFound()
	}
	if merchant.Status != domain.MerchantStatusActive {
		return nil, domain.ErrMerchantInactive(inactiveReason(merchant.Status))
	}

	target, reference, description, err := o.resolveSettlement(merchant, req)
	if err != nil {
		return nil, err
	}

	limit := merchant.Plan.MonthlyTxLimit
	if limit != domain.UnlimitedTxLimit {
		current, err := o.usage.CountThisMonth(merchantID)
		if err != nil {
			log.Printf("[PAYMENT] usage lookup unavailable, failing open: %v", err)
		} else if current >= limit {
			return nil, domain.ErrQuotaExceeded(current, limit)
		}
	}

	intent := &models.PaymentIntent{
		MerchantID:    merchantID,
		Amount:        req.Amount,
		Currency:      "KES",
		Provider:      "mpesa",
		Status:        domain.IntentStatusInitiated,
		Reference:     req.Reference,
		Description:   req.Description,
		CustomerPhone: req.Phone,
		ChannelID:     req.ChannelID,
	}
	if err := o.intents.Create(intent); err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}

	stkResp, err := o.gateway.STKPush(ctx, mpesa.STKPushRequest{
		Amount:           req.Amount,
		Phone:            req.Phone,
		ShortCode:        target.ShortCode,
		TransactionType:  target.TransactionType(),
		AccountReference: reference,
		Description:      description,
	})
	if err != nil {
		meta, _ := json.Marshal(map[string]string{"error": err.Error()})
		intent.Status = domain.IntentStatusFailed
		intent.Metadata = string(meta)
		if uerr := o.intents.Update(intent); uerr != nil {
			log.Printf("[PAYMENT] marking intent %d FAILED: %v", intent.ID, uerr)
		}
		return nil, err
	}

	ref := stkResp.CheckoutRequestID
	intent.Status = domain.IntentStatusStkSent
	intent.ProviderRef = &ref
	if err := o.intents.Update(intent); err != nil {
		return nil, fmt.Errorf("persisting STK_SENT for intent %d: %w", intent.ID, err)
	}

	resp := &InitiateResponse{TransactionID: intent.ID, Status: "PENDING"}
	body, _ := json.Marshal(resp)
	o.guard.Store(fp, merchantID, "POST", initiatePath, 201, body)
	go func() {
		if err := o.usage.Record(merchantID, req.Amount); err != nil {
			log.Printf("[PAYMENT] usage bump failed for merchant %d: %v", merchantID, err)
		}
	}()
	return resp, nil
}

// resolveSettlement picks the destination for collected funds. A bank channel
// overrides the merchant reference with the bank account number so money
// lands on the correct sub-account.
func (o *PaymentOrchestrator) resolveSettlement(merchant *models.Merchant, req InitiateRequest) (SettlementTarget, string, string, error) {
	reference := req.Reference
	description := req.Description
	if description == "" {
		description = "Collection"
	}
	if req.ChannelID != nil {
		ch, err := o.channels.GetActiveForMerchant(merchant.ID, *req.ChannelID)
		if err != nil {
			return SettlementTarget{}, "", "", fmt.Errorf("loading channel %d: %w", *req.ChannelID, err)
		}
		if ch == nil {
			return SettlementTarget{}, "", "", domain.ErrChannelNotFound()
		}
		target := settlementFromChannel(ch)
		if target.Kind == domain.ChannelTypeBank {
			reference = target.AccountNumber
			description = bankSettlementDesc
		}
		return target, reference, description, nil
	}
	if merchant.ShortCode == "" {
		return SettlementTarget{}, "", "", domain.ErrValidation("no settlement target configured")
	}
	return SettlementTarget{Kind: domain.ChannelTypePaybill, ShortCode: merchant.ShortCode}, reference, description, nil
}

// GetForMerchant is the follow-up status query.
func (o *PaymentOrchestrator) GetForMerchant(id, merchantID uint) (*models.PaymentIntent, error) {
	return o.intents.GetForMerchant(id, merchantID)
}

func inactiveReason(status string) string {
	switch status {
	case domain.MerchantStatusPending:
		return "account not activated: no KYC documents submitted"
	case domain.MerchantStatusKYCReview:
		return "account not activated: KYC review pending"
	case domain.MerchantStatusSuspended:
		return "account suspended"
	case domain.MerchantStatusRejected:
		return "account rejected"
	}
	return "account inactive"
}
