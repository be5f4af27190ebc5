package repository

import (
	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/domain/customer"
	"github.com/tallybank/tallybank/internal/domain/invoice"
	"github.com/tallybank/tallybank/internal/domain/transaction"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
	postgresRepo "github.com/tallybank/tallybank/internal/repository/postgres"
)

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return postgresRepo.NewAccountRepository(db, logger)
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewTransactionRepository(db *postgres.DB, logger *logger.Logger) transaction.Repository {
	return postgresRepo.NewTransactionRepository(db, logger)
}
