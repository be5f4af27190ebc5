package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/events"
	"github.com/tallybank/tallybank/internal/domain/invoice"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/gateway"
	"github.com/tallybank/tallybank/internal/interfaces"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/version"
)

type InvoiceService = interfaces.InvoiceService

type invoiceService struct {
	ServiceParams
	now func() time.Time
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.authorizedAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	inv, err := req.ToInvoice(ctx, acct.OwnerUsername, acct.Currency)
	if err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"account_id", inv.AccountID,
		"total_amount", inv.TotalAmount.String(),
	)
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, inv.Username, "invoice", id); err != nil {
		return nil, err
	}
	inv.MarkOverdue(s.now())
	return &dto.InvoiceResponse{Invoice: inv}, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, f *filter.ListFilter) (*dto.ListInvoicesResponse, error) {
	f = scopeToCaller(ctx, f, "username")
	if err := f.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	count, err := s.InvoiceRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		inv.MarkOverdue(now)
		return &dto.InvoiceResponse{Invoice: inv}
	})
	resp := types.NewListResponse(items, count, f.GetLimit(), f.GetOffset())
	return &resp, nil
}

// PayInvoice debits the remote account first and commits the invoice only
// once the debit went through. A failed local commit after a successful
// debit is reported and returned, the debit is not reverted.
func (s *invoiceService) PayInvoice(ctx context.Context, id string, expectedVersion int64, req dto.PayInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.MarkOverdue(s.now())

	if err := version.Compare(expectedVersion, inv.Version); err != nil {
		return nil, err
	}

	acct, err := s.authorizedAccount(ctx, inv.AccountID)
	if err != nil {
		return nil, err
	}

	next, payment, err := invoice.Settle(inv, req.ToPayment(ctx, inv.ID), acct.Balance)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()
	next.UpdatedBy = types.GetUsername(ctx)

	creds := gateway.CredentialsFromContext(ctx)
	if err := s.AccountGateway.DebitAccount(ctx, acct.ID, payment.Amount, acct.Version, creds); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Update(ctx, next); err != nil {
		s.Logger.Errorw("account debited but invoice commit failed",
			"invoice_id", inv.ID,
			"payment_id", payment.ID,
			"account_id", acct.ID,
			"amount", payment.Amount.String(),
			"error", err,
		)
		s.Sentry.CaptureWithTags(ctx, err, map[string]string{
			"invoice_id": inv.ID,
			"account_id": acct.ID,
			"amount":     payment.Amount.String(),
		})
		return nil, err
	}

	s.Logger.Infow("settled invoice payment",
		"invoice_id", next.ID,
		"payment_id", payment.ID,
		"amount", payment.Amount.String(),
		"amount_remaining", next.AmountRemaining.String(),
		"status", next.Status,
		"version", next.Version,
	)

	s.publish(ctx, events.EventPaymentSettled, &events.PaymentSettled{
		InvoiceID:       next.ID,
		PaymentID:       payment.ID,
		AccountID:       acct.ID,
		Username:        next.Username,
		Currency:        next.Currency,
		Amount:          payment.Amount,
		AmountRemaining: next.AmountRemaining,
		Status:          next.Status,
	})

	return &dto.InvoiceResponse{Invoice: next}, nil
}

// authorizedAccount fetches the account an invoice is charged to and checks
// the caller may charge it. Degraded accounts are refused to everybody.
func (s *invoiceService) authorizedAccount(ctx context.Context, accountID string) (*gateway.RemoteAccount, error) {
	acct := s.AccountGateway.FetchAccount(ctx, accountID, gateway.CredentialsFromContext(ctx))
	username := types.GetUsername(ctx)

	if acct.OwnedBy(username) || (!acct.Degraded() && types.IsAdmin(ctx)) {
		return acct, nil
	}

	s.Logger.Debugw("account access denied",
		"account_id", accountID,
		"username", username,
		"degraded", acct.Degraded(),
		"owner", acct.OwnerUsername,
	)
	return nil, ierr.NewErrorf("%s may not charge account %s", username, accountID).
		WithHint("You do not have access to this account").
		WithReportableDetails(map[string]any{
			"account_id": accountID,
		}).
		Mark(ierr.ErrPermissionDenied)
}
