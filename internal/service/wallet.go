package service

import (
	"fmt"
	"log"

	"pesaflow/internal/domain"
	"pesaflow/internal/models"
	"pesaflow/internal/pricing"
)

type WalletStore interface {
	GetOrCreate(merchantID uint) (*models.WalletAccount, error)
	DebitIfSufficient(merchantID uint, amount float64) (bool, float64, error)
	ForceDebit(merchantID uint, amount float64) (float64, error)
	Credit(merchantID uint, amount float64) error
	CreateEntry(e *models.WalletLedgerEntry) error
}

// WalletLedger owns the merchant fee balance and its append-only log. Fee
// debits prefer the conditional decrement; when the balance cannot cover the
// fee the debit is forced and the balance goes negative, because an
// already-completed customer payment must never be reversed over an
// uncollected platform fee. The shortfall stays on the books as debt.
type WalletLedger struct {
	store WalletStore
}

func NewWalletLedger(store WalletStore) *WalletLedger {
	return &WalletLedger{store: store}
}

// DebitFee charges the tiered platform fee for a completed transaction.
// Exactly one FEE ledger entry is appended whether the debit was covered or
// forced.
func (l *WalletLedger) DebitFee(merchantID uint, txAmount float64, reference string) error {
	fee := pricing.Fee(txAmount)
	if fee <= 0 {
		return nil
	}
	w, err := l.store.GetOrCreate(merchantID)
	if err != nil {
		return err
	}
	covered, balance, err := l.store.DebitIfSufficient(merchantID, fee)
	if err != nil {
		return err
	}
	if !covered {
		balance, err = l.store.ForceDebit(merchantID, fee)
		if err != nil {
			return err
		}
		log.Printf("[WALLET] forced fee debit merchant=%d fee=%.2f ref=%s (balance going negative)", merchantID, fee, reference)
	}
	entry := &models.WalletLedgerEntry{
		WalletID:    w.ID,
		MerchantID:  merchantID,
		Amount:      -fee,
		Type:        domain.LedgerTypeFee,
		Reference:   reference,
		Description: fmt.Sprintf("transaction fee on %.2f; balance %.2f -> %.2f", txAmount, balance+fee, balance),
		Status:      "COMPLETED",
	}
	return l.store.CreateEntry(entry)
}

// Credit unconditionally increments the balance and appends one entry of the
// given type (TOPUP, BONUS or REFUND).
func (l *WalletLedger) Credit(merchantID uint, amount float64, entryType, reference, description string) error {
	switch entryType {
	case domain.LedgerTypeTopup, domain.LedgerTypeBonus, domain.LedgerTypeRefund:
	default:
		return fmt.Errorf("invalid credit type %q", entryType)
	}
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive")
	}
	w, err := l.store.GetOrCreate(merchantID)
	if err != nil {
		return err
	}
	if err := l.store.Credit(merchantID, amount); err != nil {
		return err
	}
	entry := &models.WalletLedgerEntry{
		WalletID:    w.ID,
		MerchantID:  merchantID,
		Amount:      amount,
		Type:        entryType,
		Reference:   reference,
		Description: description,
		Status:      "COMPLETED",
	}
	return l.store.CreateEntry(entry)
}

// HasSufficientFunds is advisory only, for UI hints. It never gates payment
// initiation.
func (l *WalletLedger) HasSufficientFunds(merchantID uint, txAmount float64) (bool, float64, error) {
	fee := pricing.Fee(txAmount)
	if fee <= 0 {
		return true, 0, nil
	}
	w, err := l.store.GetOrCreate(merchantID)
	if err != nil {
		return false, fee, err
	}
	return w.Balance >= fee, fee, nil
}
