// Package gateway reads and debits accounts owned by the account service on
// behalf of the other services.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/config"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/httpclient"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/version"
	"golang.org/x/time/rate"
)

const (
	// OwnerNotFound is the owner of an account the remote service does not know
	OwnerNotFound = "N/A"
	// OwnerUnavailable is the owner of an account that could not be fetched
	OwnerUnavailable = "Exception"
)

// RemoteAccount is the view of an account the invoice service works with.
// A degraded account stands in for one that could not be fetched and is
// never owned by anybody.
type RemoteAccount struct {
	ID            string
	OwnerUsername string
	Currency      string
	Balance       decimal.Decimal
	Version       int64
	degraded      bool
}

// Degraded reports whether the account is a placeholder
func (a *RemoteAccount) Degraded() bool {
	return a.degraded
}

// OwnedBy reports whether username owns the account. Degraded accounts are
// owned by nobody, including usernames equal to their placeholder owner.
func (a *RemoteAccount) OwnedBy(username string) bool {
	if a == nil || a.degraded || username == "" {
		return false
	}
	return a.OwnerUsername == username
}

// NewDegradedAccount stands in for an account that could not be fetched
func NewDegradedAccount(id, owner string) *RemoteAccount {
	return &RemoteAccount{
		ID:            id,
		OwnerUsername: owner,
		Balance:       decimal.Zero,
		degraded:      true,
	}
}

// Credentials are forwarded to the account service as a bearer token,
// together with the request id of the call that caused the lookup
type Credentials struct {
	Token     string
	RequestID string
}

// CredentialsFromContext forwards the caller's own token and request id
func CredentialsFromContext(ctx context.Context) Credentials {
	return Credentials{Token: types.GetJWT(ctx), RequestID: types.GetRequestID(ctx)}
}

// AccountGateway is what the invoice service needs from the account service
type AccountGateway interface {
	// FetchAccount never fails. Lookups that do not produce an account
	// yield a degraded account instead.
	FetchAccount(ctx context.Context, id string, creds Credentials) *RemoteAccount
	// DebitAccount withdraws amount if the account is still at version
	DebitAccount(ctx context.Context, id string, amount decimal.Decimal, version int64, creds Credentials) error
}

type accountGateway struct {
	client  httpclient.Client
	baseURL string
	cfg     config.AccountServiceConfig
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewAccountGateway returns a gateway talking to the configured account service
func NewAccountGateway(cfg *config.Configuration, client httpclient.Client, log *logger.Logger) AccountGateway {
	return &accountGateway{
		client:  client,
		baseURL: strings.TrimRight(cfg.AccountService.BaseURL, "/"),
		cfg:     cfg.AccountService,
		limiter: newLimiter(cfg.AccountService),
		logger:  log,
	}
}

func newLimiter(cfg config.AccountServiceConfig) *rate.Limiter {
	if cfg.RateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
}

type accountPayload struct {
	ID            string          `json:"id"`
	OwnerUsername string          `json:"owner_username"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"version"`
}

func (g *accountGateway) accountURL(id string, suffix string) string {
	return fmt.Sprintf("%s/v1/accounts/%s%s", g.baseURL, url.PathEscape(id), suffix)
}

func (g *accountGateway) headers(creds Credentials) map[string]string {
	h := map[string]string{}
	if creds.Token != "" {
		h[types.HeaderAuthorization] = "Bearer " + creds.Token
	}
	if creds.RequestID != "" {
		h[types.HeaderRequestID] = creds.RequestID
	}
	return h
}

func (g *accountGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.cfg.Timeout)
}

func (g *accountGateway) FetchAccount(ctx context.Context, id string, creds Credentials) *RemoteAccount {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		g.logger.Warnw("account service rate limit not granted", "account_id", id, "error", err)
		return NewDegradedAccount(id, OwnerUnavailable)
	}

	resp, err := g.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     g.accountURL(id, ""),
		Headers: g.headers(creds),
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok && httpErr.StatusCode == http.StatusNotFound {
			g.logger.Infow("remote account not found", "account_id", id)
			return NewDegradedAccount(id, OwnerNotFound)
		}
		g.logger.Warnw("remote account unavailable", "account_id", id, "error", err)
		return NewDegradedAccount(id, OwnerUnavailable)
	}

	var payload accountPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.ID == "" {
		g.logger.Warnw("malformed remote account", "account_id", id, "error", err)
		return NewDegradedAccount(id, OwnerUnavailable)
	}

	acc := &RemoteAccount{
		ID:            payload.ID,
		OwnerUsername: payload.OwnerUsername,
		Currency:      payload.Currency,
		Balance:       payload.Balance,
		Version:       payload.Version,
	}
	// the ETag is authoritative when present
	if etag, ok := resp.Headers["Etag"]; ok {
		if v, err := version.Parse(etag, true); err == nil {
			acc.Version = v
		}
	}
	return acc
}

type balanceChangeRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

func (g *accountGateway) DebitAccount(ctx context.Context, id string, amount decimal.Decimal, v int64, creds Credentials) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(balanceChangeRequest{Amount: amount.Neg()})
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return ierr.WithError(err).
			WithHint("The account service is busy, please retry later").
			WithReportableDetails(map[string]any{"account_id": id}).
			Mark(ierr.ErrHTTPClient)
	}

	headers := g.headers(creds)
	headers[types.HeaderIfMatch] = version.Format(v)

	_, err = g.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodPut,
		URL:     g.accountURL(id, "/balance"),
		Headers: headers,
		Body:    body,
	})
	if err == nil {
		return nil
	}

	httpErr, ok := httpclient.IsHTTPError(err)
	if !ok {
		return ierr.WithError(err).
			WithHint("The account service is not reachable, please retry later").
			WithReportableDetails(map[string]any{"account_id": id}).
			Mark(ierr.ErrHTTPClient)
	}
	return mapDebitError(id, httpErr)
}

func mapDebitError(id string, httpErr *httpclient.Error) error {
	details := map[string]any{
		"account_id":  id,
		"status_code": httpErr.StatusCode,
	}

	switch httpErr.StatusCode {
	case http.StatusPaymentRequired:
		return ierr.WithError(httpErr).
			WithHint("The account balance does not cover this payment").
			WithReportableDetails(details).
			Mark(ierr.ErrInsufficientFunds)
	case http.StatusPreconditionRequired:
		return ierr.WithError(httpErr).
			WithHint("The account service requires a version token").
			WithReportableDetails(details).
			Mark(ierr.ErrVersionRequired)
	case http.StatusPreconditionFailed:
		sentinel := ierr.ErrVersionStale
		switch httpErr.RemoteCode() {
		case ierr.ErrCodeVersionAhead:
			sentinel = ierr.ErrVersionAhead
		case ierr.ErrCodeVersionMalformed:
			sentinel = ierr.ErrVersionMalformed
		}
		return ierr.WithError(httpErr).
			WithHint("The account changed while the payment was processed, please retry").
			WithReportableDetails(details).
			Mark(sentinel)
	case http.StatusNotFound:
		return ierr.WithError(httpErr).
			WithHint("Account not found").
			WithReportableDetails(details).
			Mark(ierr.ErrNotFound)
	default:
		return ierr.WithError(httpErr).
			WithHint("The account service rejected the debit").
			WithReportableDetails(details).
			Mark(ierr.ErrHTTPClient)
	}
}
