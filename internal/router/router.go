package router

import (
	"time"

	"pesaflow/config"
	"pesaflow/internal/handler"
	"pesaflow/internal/middleware"
	"pesaflow/internal/repository"
	"pesaflow/internal/service"
	"pesaflow/pkg/mpesa"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	merchantRepo := repository.NewMerchantRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	paymentRepo := repository.NewPaymentIntentRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	usageRepo := repository.NewUsageRepository(db)
	idemRepo := repository.NewIdempotencyRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)
	idemRepo.StartSweeper(time.Hour)

	// Services
	gateway := mpesa.NewClient(cfg.Mpesa)
	guard := service.NewIdempotencyGuard(idemRepo, cfg.Webhook.IdempotencyTTL)
	usage := service.NewUsageTracker(usageRepo)
	ledger := service.NewWalletLedger(walletRepo)
	dispatcher := service.NewWebhookDispatcher(webhookRepo, cfg.Webhook.DeliveryTimeout)
	orchestrator := service.NewPaymentOrchestrator(merchantRepo, channelRepo, paymentRepo, guard, usage, gateway)
	processor := service.NewCallbackProcessor(paymentRepo, ledger, dispatcher)

	// Handlers
	paymentHandler := handler.NewPaymentHandler(orchestrator)
	callbackHandler := handler.NewCallbackHandler(processor)
	walletHandler := handler.NewWalletHandler(ledger, walletRepo)
	webhookHandler := handler.NewWebhookHandler(webhookRepo)

	authMw := middleware.MerchantRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.POST("/initiate", paymentHandler.Initiate)
			payments.GET("/:id", paymentHandler.GetStatus)
		}

		wallet := api.Group("/wallet")
		wallet.Use(authMw)
		{
			wallet.GET("", walletHandler.GetBalance)
			wallet.GET("/transactions", walletHandler.ListTransactions)
			wallet.POST("/topup", walletHandler.Topup)
			wallet.GET("/check", walletHandler.CheckFunds)
		}

		webhooks := api.Group("/webhooks")
		webhooks.Use(authMw)
		{
			webhooks.POST("", webhookHandler.Create)
			webhooks.GET("", webhookHandler.List)
			webhooks.DELETE("/:id", webhookHandler.Delete)
			webhooks.GET("/:id/attempts", webhookHandler.ListAttempts)
		}

		api.POST("/callbacks/mpesa", callbackHandler.HandleMpesa)
	}

	return r
}
