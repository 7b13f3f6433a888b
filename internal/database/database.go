package database

import (
	"log"

	"pesaflow/config"
	"pesaflow/internal/domain"
	"pesaflow/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Plan{},
		&models.Merchant{},
		&models.Channel{},
		&models.PaymentIntent{},
		&models.WalletAccount{},
		&models.WalletLedgerEntry{},
		&models.UsageCounter{},
		&models.IdempotencyRecord{},
		&models.Webhook{},
		&models.WebhookDeliveryAttempt{},
	)
}

// SeedPlans creates the default subscription plans if they are missing.
// Plan management itself lives with the subscription collaborator.
func SeedPlans(db *gorm.DB) {
	plans := []models.Plan{
		{Name: "starter", MonthlyTxLimit: 100, MonthlyPrice: 0},
		{Name: "business", MonthlyTxLimit: 1000, MonthlyPrice: 2500},
		{Name: "enterprise", MonthlyTxLimit: domain.UnlimitedTxLimit, MonthlyPrice: 10000},
	}
	for _, p := range plans {
		var existing models.Plan
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			log.Printf("[SEED] creating plan %s: %v", p.Name, err)
		}
	}
}
