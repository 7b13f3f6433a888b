package repository

import (
	"errors"

	"pesaflow/internal/models"

	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByMerchantID(merchantID uint) (*models.WalletAccount, error) {
	var w models.WalletAccount
	err := r.db.Where("merchant_id = ?", merchantID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOrCreate lazily provisions the fee wallet on first access.
func (r *WalletRepository) GetOrCreate(merchantID uint) (*models.WalletAccount, error) {
	w, err := r.GetByMerchantID(merchantID)
	if err != nil || w != nil {
		return w, err
	}
	w = &models.WalletAccount{MerchantID: merchantID, Balance: 0, Currency: "KES"}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// DebitIfSufficient atomically decrements the balance only when it covers the
// amount, and returns the resulting balance. The conditional UPDATE is the
// correctness boundary for concurrent debits; the row stays locked until the
// transaction commits, so the read-back pairs with this debit and no other.
func (r *WalletRepository) DebitIfSufficient(merchantID uint, amount float64) (bool, float64, error) {
	var covered bool
	var balance float64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.WalletAccount{}).
			Where("merchant_id = ? AND balance >= ?", merchantID, amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		covered = res.RowsAffected > 0
		var w models.WalletAccount
		if err := tx.Where("merchant_id = ?", merchantID).First(&w).Error; err != nil {
			return err
		}
		balance = w.Balance
		return nil
	})
	return covered, balance, err
}

// ForceDebit decrements unconditionally, allowing the balance to go negative,
// and returns the resulting balance.
func (r *WalletRepository) ForceDebit(merchantID uint, amount float64) (float64, error) {
	var balance float64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WalletAccount{}).
			Where("merchant_id = ?", merchantID).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}
		var w models.WalletAccount
		if err := tx.Where("merchant_id = ?", merchantID).First(&w).Error; err != nil {
			return err
		}
		balance = w.Balance
		return nil
	})
	return balance, err
}

func (r *WalletRepository) Credit(merchantID uint, amount float64) error {
	if _, err := r.GetOrCreate(merchantID); err != nil {
		return err
	}
	return r.db.Model(&models.WalletAccount{}).
		Where("merchant_id = ?", merchantID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
}

func (r *WalletRepository) CreateEntry(e *models.WalletLedgerEntry) error {
	return r.db.Create(e).Error
}

func (r *WalletRepository) ListEntries(merchantID uint, limit int) ([]models.WalletLedgerEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var entries []models.WalletLedgerEntry
	err := r.db.Where("merchant_id = ?", merchantID).
		Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
