package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/events"
	"github.com/tallybank/tallybank/internal/domain/transaction"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/interfaces"
	"github.com/tallybank/tallybank/internal/types"
)

type TransactionService = interfaces.TransactionService

type transactionService struct {
	ServiceParams
}

func NewTransactionService(params ServiceParams) TransactionService {
	return &transactionService{
		ServiceParams: params,
	}
}

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := req.ToTransaction(ctx)
	if err := s.TransactionRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded transaction",
		"transaction_id", t.ID,
		"amount", t.Amount.String(),
		"currency", t.Currency,
	)
	return dto.NewTransactionResponse(t, lo.FromPtr(t.Sender)), nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id string, viewpoint string) (*dto.TransactionResponse, error) {
	t, err := s.TransactionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewTransactionResponse(t, viewpoint), nil
}

func (s *transactionService) ListTransactions(ctx context.Context, f *filter.ListFilter, viewpoint string) (*dto.ListTransactionsResponse, error) {
	if f == nil {
		f = filter.NewListFilter(nil, nil)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	txs, err := s.TransactionRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	count, err := s.TransactionRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := lo.Map(txs, func(t *transaction.Transaction, _ int) *dto.TransactionResponse {
		return dto.NewTransactionResponse(t, viewpoint)
	})
	resp := types.NewListResponse(items, count, f.GetLimit(), f.GetOffset())
	return &resp, nil
}

// GetStatement loads the movements an account sent and received side by side
// and classifies them from the account's viewpoint, newest first
func (s *transactionService) GetStatement(ctx context.Context, accountID string) (*dto.StatementResponse, error) {
	if accountID == "" {
		return nil, ierr.NewError("account id is required").
			WithHint("Please provide an account id").
			Mark(ierr.ErrValidation)
	}

	p := pool.NewWithResults[[]*transaction.Transaction]().WithErrors().WithContext(ctx)
	for _, side := range []string{"sender", "receiver"} {
		p.Go(func(ctx context.Context) ([]*transaction.Transaction, error) {
			f := filter.NewNoLimitListFilter(filter.Equals{Path: side, Value: accountID})
			return s.TransactionRepo.List(ctx, f)
		})
	}
	sides, err := p.Wait()
	if err != nil {
		return nil, err
	}

	txs := lo.UniqBy(lo.Flatten(sides), func(t *transaction.Transaction) string {
		return t.ID
	})
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})

	items := lo.Map(txs, func(t *transaction.Transaction, _ int) *dto.TransactionResponse {
		return dto.NewTransactionResponse(t, accountID)
	})
	return &dto.StatementResponse{
		AccountID:    accountID,
		Transactions: items,
		Total:        len(items),
	}, nil
}

// RecordPaymentSettled books a settled invoice payment as a movement from the
// paying account to the bank. The payment id is the reference, so a
// redelivered event finds the first booking and returns it.
func (s *transactionService) RecordPaymentSettled(ctx context.Context, evt *events.PaymentSettled) (*dto.TransactionResponse, error) {
	if evt == nil || evt.PaymentID == "" || evt.AccountID == "" {
		return nil, ierr.NewError("payment settled event is incomplete").
			WithHint("Payment id and account id are required").
			Mark(ierr.ErrValidation)
	}

	existing, err := s.TransactionRepo.GetByReference(ctx, evt.PaymentID)
	if err == nil {
		s.Logger.Debugw("payment already recorded",
			"payment_id", evt.PaymentID,
			"transaction_id", existing.ID,
		)
		return dto.NewTransactionResponse(existing, evt.AccountID), nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	t := &transaction.Transaction{
		ID:        types.GenerateID(),
		Amount:    evt.Amount,
		Currency:  evt.Currency,
		Sender:    lo.ToPtr(evt.AccountID),
		Receiver:  lo.ToPtr(types.SentinelZeroID),
		Purpose:   fmt.Sprintf("Payment of invoice %s", evt.InvoiceID),
		Reference: evt.PaymentID,
		CreatedAt: time.Now().UTC(),
		CreatedBy: evt.Username,
	}

	if err := s.TransactionRepo.Create(ctx, t); err != nil {
		if !ierr.IsAlreadyExists(err) {
			return nil, err
		}
		// lost a race against a concurrent delivery of the same event
		existing, err := s.TransactionRepo.GetByReference(ctx, evt.PaymentID)
		if err != nil {
			return nil, err
		}
		return dto.NewTransactionResponse(existing, evt.AccountID), nil
	}

	s.Logger.Infow("recorded invoice payment",
		"transaction_id", t.ID,
		"payment_id", evt.PaymentID,
		"invoice_id", evt.InvoiceID,
		"account_id", evt.AccountID,
		"amount", t.Amount.String(),
	)
	return dto.NewTransactionResponse(t, evt.AccountID), nil
}
