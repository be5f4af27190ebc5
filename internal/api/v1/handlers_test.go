package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	_ "github.com/tallybank/tallybank/docs/swagger"
	"github.com/tallybank/tallybank/internal/api"
	"github.com/tallybank/tallybank/internal/api/dto"
	v1 "github.com/tallybank/tallybank/internal/api/v1"
	"github.com/tallybank/tallybank/internal/auth"
	"github.com/tallybank/tallybank/internal/cache"
	"github.com/tallybank/tallybank/internal/domain/account"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/idempotency"
	"github.com/tallybank/tallybank/internal/sentry"
	"github.com/tallybank/tallybank/internal/service"
	"github.com/tallybank/tallybank/internal/testutil"
	"github.com/tallybank/tallybank/internal/types"
)

// tokenProvider treats the bearer token as the caller's username. The
// token "root" carries the admin role.
type tokenProvider struct{}

func (tokenProvider) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if token == "" || token == "invalid" {
		return nil, ierr.NewError("bad token").Mark(ierr.ErrPermissionDenied)
	}
	claims := &auth.Claims{UserID: token, Username: token}
	if token == "root" {
		claims.Roles = []string{types.RoleAdmin}
	}
	return claims, nil
}

type HandlerSuite struct {
	testutil.BaseServiceTestSuite
	router  *gin.Engine
	account *account.Account
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	gin.SetMode(gin.TestMode)

	stores := s.GetStores()
	params := service.NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		stores.CustomerRepo,
		stores.AccountRepo,
		stores.InvoiceRepo,
		stores.TransactionRepo,
		s.GetAccountGateway(),
		s.GetPublisher(),
		sentry.NewSentryService(s.GetConfig(), s.GetLogger()),
	)
	replay := idempotency.NewStore(cache.NewInMemoryCache(time.Minute), s.GetConfig(), s.GetLogger())

	s.router = api.NewRouter(api.Handlers{
		Health:      v1.NewHealthHandler(s.GetConfig(), s.GetLogger()),
		Customer:    v1.NewCustomerHandler(service.NewCustomerService(params), s.GetLogger()),
		Account:     v1.NewAccountHandler(service.NewAccountService(params), s.GetLogger()),
		Invoice:     v1.NewInvoiceHandler(service.NewInvoiceService(params), replay, s.GetLogger()),
		Transaction: v1.NewTransactionHandler(service.NewTransactionService(params), s.GetLogger()),
	}, s.GetConfig(), s.GetLogger(), tokenProvider{})

	s.account = testutil.NewActiveAccount(s.GetContext(), testutil.DefaultUsername, decimal.NewFromInt(100))
	s.Require().NoError(stores.AccountRepo.Create(s.GetContext(), s.account))
}

func (s *HandlerSuite) do(method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(types.HeaderAuthorization, "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (s *HandlerSuite) errorCode(w *httptest.ResponseRecorder) string {
	var resp ierr.ErrorResponse
	s.decode(w, &resp)
	return resp.Error.Code
}

func (s *HandlerSuite) createInvoice(total string) dto.InvoiceResponse {
	w := s.do(http.MethodPost, "/v1/invoices", testutil.DefaultUsername, map[string]any{
		"account_id":   s.account.ID,
		"total_amount": total,
	}, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.InvoiceResponse
	s.decode(w, &resp)
	return resp
}

func (s *HandlerSuite) TestHealthIsPublic() {
	w := s.do(http.MethodGet, "/health", "", nil, nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestServesAPIDocs() {
	w := s.do(http.MethodGet, "/swagger/doc.json", "", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "/invoices/{id}/payments")
	s.Contains(w.Body.String(), "TallyBank API")
}

func (s *HandlerSuite) TestRequiresBearerToken() {
	w := s.do(http.MethodGet, "/v1/accounts", "", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/v1/accounts", "invalid", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerSuite) TestCustomerLifecycle() {
	w := s.do(http.MethodPost, "/v1/customers", testutil.DefaultUsername, map[string]any{
		"username":       testutil.DefaultUsername,
		"last_name":      "Liddell",
		"gender":         "female",
		"marital_status": "single",
		"address":        map[string]any{"city": "Oxford"},
	}, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal(`"0"`, w.Header().Get(types.HeaderETag))

	var created dto.CustomerResponse
	s.decode(w, &created)

	w = s.do(http.MethodGet, "/v1/customers/"+created.ID, testutil.DefaultUsername, nil, map[string]string{
		types.HeaderIfNoneMatch: `"0"`,
	})
	s.Equal(http.StatusNotModified, w.Code)
	s.Empty(w.Body.Bytes())

	update := map[string]any{
		"last_name":      "Liddell-Hargreaves",
		"gender":         "FEMALE",
		"marital_status": "MARRIED",
	}

	w = s.do(http.MethodPut, "/v1/customers/"+created.ID, testutil.DefaultUsername, update, nil)
	s.Equal(http.StatusPreconditionRequired, w.Code)
	s.Equal(ierr.ErrCodeVersionRequired, s.errorCode(w))

	w = s.do(http.MethodPut, "/v1/customers/"+created.ID, testutil.DefaultUsername, update, map[string]string{
		types.HeaderIfMatch: `W/"0"`,
	})
	s.Equal(http.StatusPreconditionFailed, w.Code)
	s.Equal(ierr.ErrCodeVersionMalformed, s.errorCode(w))

	w = s.do(http.MethodPut, "/v1/customers/"+created.ID, testutil.DefaultUsername, update, map[string]string{
		types.HeaderIfMatch: `"0"`,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(`"1"`, w.Header().Get(types.HeaderETag))

	w = s.do(http.MethodPut, "/v1/customers/"+created.ID, testutil.DefaultUsername, update, map[string]string{
		types.HeaderIfMatch: `"0"`,
	})
	s.Equal(http.StatusPreconditionFailed, w.Code)
	s.Equal(ierr.ErrCodeVersionStale, s.errorCode(w))

	w = s.do(http.MethodGet, "/v1/customers/"+created.ID, testutil.DefaultUsername, nil, map[string]string{
		types.HeaderIfNoneMatch: `"0"`,
	})
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/v1/customers/"+created.ID, "mallory", nil, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerSuite) TestListFilters() {
	s.createInvoice("10")
	s.createInvoice("90")

	w := s.do(http.MethodGet, "/v1/invoices?minTotalAmount=50&limit=10", testutil.DefaultUsername, nil, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var list dto.ListInvoicesResponse
	s.decode(w, &list)
	s.Require().Len(list.Items, 1)
	s.True(list.Items[0].TotalAmount.Equal(decimal.NewFromInt(90)))
	s.Equal(10, list.Pagination.Limit)

	w = s.do(http.MethodGet, "/v1/invoices?minTotalAmount=lots", testutil.DefaultUsername, nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &list)
	s.Len(list.Items, 2)

	w = s.do(http.MethodGet, "/v1/invoices?status=bogus", testutil.DefaultUsername, nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &list)
	s.Empty(list.Items)

	w = s.do(http.MethodGet, "/v1/invoices?color=red", testutil.DefaultUsername, nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(ierr.ErrCodeUnknownFilterKey, s.errorCode(w))

	w = s.do(http.MethodGet, "/v1/accounts?limit=0", testutil.DefaultUsername, nil, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestUpdateBalance() {
	path := "/v1/accounts/" + s.account.ID + "/balance"

	w := s.do(http.MethodPut, path, testutil.DefaultUsername, map[string]any{"amount": "-50.00"}, map[string]string{
		types.HeaderIfMatch: `"0"`,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(`"1"`, w.Header().Get(types.HeaderETag))

	var resp dto.AccountResponse
	s.decode(w, &resp)
	s.True(resp.Balance.Equal(decimal.NewFromInt(50)))

	w = s.do(http.MethodPut, path, testutil.DefaultUsername, map[string]any{"amount": "-500"}, map[string]string{
		types.HeaderIfMatch: `"1"`,
	})
	s.Equal(http.StatusPaymentRequired, w.Code)
	s.Equal(ierr.ErrCodeInsufficientFunds, s.errorCode(w))

	w = s.do(http.MethodPut, path, testutil.DefaultUsername, map[string]any{"amount": "5"}, map[string]string{
		types.HeaderIfMatch: `"7"`,
	})
	s.Equal(http.StatusPreconditionFailed, w.Code)
	s.Equal(ierr.ErrCodeVersionAhead, s.errorCode(w))
}

func (s *HandlerSuite) TestPayInvoice() {
	inv := s.createInvoice("80")
	path := "/v1/invoices/" + inv.ID + "/payments"

	w := s.do(http.MethodPost, path, testutil.DefaultUsername, map[string]any{"amount": "30"}, nil)
	s.Equal(http.StatusPreconditionRequired, w.Code)

	w = s.do(http.MethodPost, path, testutil.DefaultUsername, map[string]any{"amount": "30"}, map[string]string{
		types.HeaderIfMatch: `"0"`,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(`"1"`, w.Header().Get(types.HeaderETag))

	var paid dto.InvoiceResponse
	s.decode(w, &paid)
	s.Equal(types.InvoiceStatusPending, paid.Status)
	s.True(paid.AmountRemaining.Equal(decimal.NewFromInt(50)))

	w = s.do(http.MethodPost, path, testutil.DefaultUsername, map[string]any{"amount": "100"}, map[string]string{
		types.HeaderIfMatch: `"1"`,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &paid)
	s.Equal(types.InvoiceStatusPaid, paid.Status)

	w = s.do(http.MethodPost, path, testutil.DefaultUsername, map[string]any{"amount": "1"}, map[string]string{
		types.HeaderIfMatch: `"2"`,
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal(ierr.ErrCodeInvoiceAlreadyPaid, s.errorCode(w))
}

func (s *HandlerSuite) TestPayInvoiceReplaysIdempotencyKey() {
	inv := s.createInvoice("80")
	path := "/v1/invoices/" + inv.ID + "/payments"
	headers := map[string]string{
		types.HeaderIfMatch:        `"0"`,
		types.HeaderIdempotencyKey: "pay-1",
	}

	first := s.do(http.MethodPost, path, testutil.DefaultUsername, map[string]any{"amount": "30"}, headers)
	s.Require().Equal(http.StatusOK, first.Code, first.Body.String())

	second := s.do(http.MethodPost, path, testutil.DefaultUsername, map[string]any{"amount": "30"}, headers)
	s.Require().Equal(http.StatusOK, second.Code, second.Body.String())
	s.Equal("true", second.Header().Get(types.HeaderIdempotentReplayed))
	s.Equal(first.Header().Get(types.HeaderETag), second.Header().Get(types.HeaderETag))
	s.JSONEq(first.Body.String(), second.Body.String())
	s.Len(s.GetAccountGateway().Debits(), 1)

	w := s.do(http.MethodPost, path, testutil.DefaultUsername, map[string]any{"amount": "31"}, headers)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestPayInvoiceDegradedAccount() {
	inv := s.createInvoice("80")
	s.GetAccountGateway().SetUnavailable(s.account.ID)

	w := s.do(http.MethodPost, "/v1/invoices/"+inv.ID+"/payments", "root", map[string]any{"amount": "10"}, map[string]string{
		types.HeaderIfMatch: `"0"`,
	})
	s.Equal(http.StatusForbidden, w.Code)
	s.Empty(s.GetAccountGateway().Debits())
}

func (s *HandlerSuite) TestTransactionsAndStatement() {
	other := testutil.NewActiveAccount(s.GetContext(), "bob", decimal.NewFromInt(10))
	s.Require().NoError(s.GetStores().AccountRepo.Create(s.GetContext(), other))

	w := s.do(http.MethodPost, "/v1/transactions", testutil.DefaultUsername, map[string]any{
		"amount":   "25",
		"currency": "eur",
		"sender":   s.account.ID,
		"receiver": other.ID,
		"purpose":  "rent",
	}, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created dto.TransactionResponse
	s.decode(w, &created)
	s.Equal(types.TransactionTypeTransfer, created.Type)
	s.Equal("EUR", created.Currency)

	w = s.do(http.MethodGet, "/v1/transactions/"+created.ID+"?viewpoint="+other.ID, testutil.DefaultUsername, nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var seen dto.TransactionResponse
	s.decode(w, &seen)
	s.Equal(types.TransactionTypeIncome, seen.Type)

	w = s.do(http.MethodGet, "/v1/transactions?viewpoint="+other.ID+"&currency=EUR", testutil.DefaultUsername, nil, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var list dto.ListTransactionsResponse
	s.decode(w, &list)
	s.Require().Len(list.Items, 1)
	s.Equal(types.TransactionTypeIncome, list.Items[0].Type)

	w = s.do(http.MethodGet, "/v1/transactions/accounts/"+s.account.ID, testutil.DefaultUsername, nil, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var statement dto.StatementResponse
	s.decode(w, &statement)
	s.Equal(1, statement.Total)
	s.Equal(types.TransactionTypeTransfer, statement.Transactions[0].Type)
}
