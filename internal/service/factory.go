package service

import (
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/domain/customer"
	"github.com/tallybank/tallybank/internal/domain/invoice"
	"github.com/tallybank/tallybank/internal/domain/transaction"
	"github.com/tallybank/tallybank/internal/gateway"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
	"github.com/tallybank/tallybank/internal/publisher"
	"github.com/tallybank/tallybank/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	CustomerRepo    customer.Repository
	AccountRepo     account.Repository
	InvoiceRepo     invoice.Repository
	TransactionRepo transaction.Repository

	// Remote account service as seen by the invoice service
	AccountGateway gateway.AccountGateway

	// Publishers
	EventPublisher publisher.EventPublisher

	Sentry *sentry.Service
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	customerRepo customer.Repository,
	accountRepo account.Repository,
	invoiceRepo invoice.Repository,
	transactionRepo transaction.Repository,
	accountGateway gateway.AccountGateway,
	eventPublisher publisher.EventPublisher,
	sentry *sentry.Service,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		DB:              db,
		CustomerRepo:    customerRepo,
		AccountRepo:     accountRepo,
		InvoiceRepo:     invoiceRepo,
		TransactionRepo: transactionRepo,
		AccountGateway:  accountGateway,
		EventPublisher:  eventPublisher,
		Sentry:          sentry,
	}
}
