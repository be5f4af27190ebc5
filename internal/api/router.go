package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	v1 "github.com/tallybank/tallybank/internal/api/v1"
	"github.com/tallybank/tallybank/internal/auth"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/rest/middleware"
	"github.com/tallybank/tallybank/internal/types"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Customer    *v1.CustomerHandler
	Account     *v1.AccountHandler
	Invoice     *v1.InvoiceHandler
	Transaction *v1.TransactionHandler
}

// NewRouter builds the HTTP surface of the configured deployment mode. In
// local mode every entity is served; otherwise only the mode's own routes.
func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, provider auth.Provider) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SecureHeadersMiddleware(cfg),
		middleware.SentryMiddleware(cfg),
		middleware.SentryScopeMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")
	v1Group.Use(middleware.AuthenticateMiddleware(provider, logger))

	mode := cfg.Deployment.Mode
	serves := func(m types.RunMode) bool {
		return mode == types.ModeLocal || mode == m
	}

	if serves(types.ModeCustomer) {
		customers := v1Group.Group("/customers")
		{
			customers.POST("", handlers.Customer.CreateCustomer)
			customers.GET("", handlers.Customer.ListCustomers)
			customers.GET("/:id", handlers.Customer.GetCustomer)
			customers.PUT("/:id", handlers.Customer.UpdateCustomer)
		}
	}

	if serves(types.ModeAccount) {
		accounts := v1Group.Group("/accounts")
		{
			accounts.POST("", handlers.Account.CreateAccount)
			accounts.GET("", handlers.Account.ListAccounts)
			accounts.GET("/:id", handlers.Account.GetAccount)
			accounts.PUT("/:id/balance", handlers.Account.UpdateBalance)
		}
	}

	if serves(types.ModeInvoice) {
		invoices := v1Group.Group("/invoices")
		{
			invoices.POST("", handlers.Invoice.CreateInvoice)
			invoices.GET("", handlers.Invoice.ListInvoices)
			invoices.GET("/:id", handlers.Invoice.GetInvoice)
			invoices.POST("/:id/payments", handlers.Invoice.PayInvoice)
		}
	}

	if serves(types.ModeTransaction) {
		transactions := v1Group.Group("/transactions")
		{
			transactions.POST("", handlers.Transaction.CreateTransaction)
			transactions.GET("", handlers.Transaction.ListTransactions)
			transactions.GET("/:id", handlers.Transaction.GetTransaction)
			transactions.GET("/accounts/:accountId", handlers.Transaction.GetStatement)
		}
	}

	return router
}
