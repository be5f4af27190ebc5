package interfaces

import (
	"context"

	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/events"
	"github.com/tallybank/tallybank/internal/filter"
)

// CustomerService defines the interface for customer operations
type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context, f *filter.ListFilter) (*dto.ListCustomersResponse, error)
	// UpdateCustomer replaces the mutable attributes of a customer last read
	// at expectedVersion
	UpdateCustomer(ctx context.Context, id string, expectedVersion int64, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
}

// AccountService defines the interface for account operations
type AccountService interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error)
	GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error)
	ListAccounts(ctx context.Context, f *filter.ListFilter) (*dto.ListAccountsResponse, error)
	// UpdateBalance credits or debits an account last read at expectedVersion
	UpdateBalance(ctx context.Context, id string, expectedVersion int64, req dto.UpdateBalanceRequest) (*dto.AccountResponse, error)
}

// InvoiceService defines the interface for invoice operations
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, f *filter.ListFilter) (*dto.ListInvoicesResponse, error)
	// PayInvoice settles an invoice last read at expectedVersion from the
	// account it is charged to
	PayInvoice(ctx context.Context, id string, expectedVersion int64, req dto.PayInvoiceRequest) (*dto.InvoiceResponse, error)
}

// TransactionService defines the interface for ledger operations
type TransactionService interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	// GetTransaction classifies the transaction as seen by viewpoint
	GetTransaction(ctx context.Context, id string, viewpoint string) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context, f *filter.ListFilter, viewpoint string) (*dto.ListTransactionsResponse, error)
	GetStatement(ctx context.Context, accountID string) (*dto.StatementResponse, error)
	// RecordPaymentSettled books the ledger movement of a settled invoice
	// payment. Redelivered events are recorded once.
	RecordPaymentSettled(ctx context.Context, evt *events.PaymentSettled) (*dto.TransactionResponse, error)
}
