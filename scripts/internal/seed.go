package internal

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
	"github.com/tallybank/tallybank/internal/repository"
	"github.com/tallybank/tallybank/internal/types"
)

// SeedDemoData writes one customer with a funded checking account and an
// open invoice straight through the repositories
func SeedDemoData() error {
	username := os.Getenv("SCRIPT_USERNAME")
	if username == "" {
		username = "demo"
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = types.SetUsername(ctx, username)

	customers := repository.NewCustomerRepository(db, log)
	accounts := repository.NewAccountRepository(db, log)
	invoices := repository.NewInvoiceRepository(db, log)

	createCustomer := dto.CreateCustomerRequest{
		Username:       username,
		LastName:       "Demo",
		FirstName:      "Dana",
		Email:          username + "@example.com",
		Gender:         string(types.GenderDiverse),
		MaritalStatus:  string(types.MaritalStatusSingle),
		TierLevel:      1,
		ContactOptions: []string{string(types.ContactOptionEmail)},
		Address:        dto.AddressRequest{City: "Berlin", Country: "DE"},
	}
	c, err := createCustomer.ToCustomer(ctx)
	if err != nil {
		return err
	}

	createAccount := dto.CreateAccountRequest{
		CustomerID: c.ID,
		Category:   string(types.AccountCategoryChecking),
		Currency:   "EUR",
		Balance:    decimal.NewFromInt(1000),
	}
	a, err := createAccount.ToAccount(ctx, username)
	if err != nil {
		return err
	}

	createInvoice := dto.CreateInvoiceRequest{
		AccountID:   a.ID,
		TotalAmount: decimal.NewFromInt(120),
		Description: "Demo subscription",
	}
	inv, err := createInvoice.ToInvoice(ctx, username, a.Currency)
	if err != nil {
		return err
	}

	err = db.WithTx(ctx, func(ctx context.Context) error {
		if err := customers.Create(ctx, c); err != nil {
			return err
		}
		if err := accounts.Create(ctx, a); err != nil {
			return err
		}
		return invoices.Create(ctx, inv)
	})
	if err != nil {
		return err
	}

	fmt.Printf("customer %s\naccount  %s\ninvoice  %s (%s)\n", c.ID, a.ID, inv.ID, inv.Number)
	return nil
}
