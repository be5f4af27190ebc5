package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tallybank/tallybank/internal/config"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/httpclient"
	"github.com/tallybank/tallybank/internal/logger"
)

type AccountGatewaySuite struct {
	suite.Suite
	handler http.HandlerFunc
	server  *httptest.Server
	gateway AccountGateway
}

func TestAccountGateway(t *testing.T) {
	suite.Run(t, new(AccountGatewaySuite))
}

func (s *AccountGatewaySuite) SetupTest() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))

	cfg := config.GetDefaultConfig()
	cfg.AccountService.BaseURL = s.server.URL
	cfg.AccountService.Timeout = 100 * time.Millisecond
	cfg.AccountService.RetryMax = 0

	log := logger.NewNoopLogger()
	client := httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout:  cfg.AccountService.Timeout,
		RetryMax: cfg.AccountService.RetryMax,
	}, log)
	s.gateway = NewAccountGateway(cfg, client, log)
}

func (s *AccountGatewaySuite) TearDownTest() {
	s.server.Close()
}

var callerUsernames = []string{"", "alice", "N/A", "Exception", "n/a", "exception"}

func (s *AccountGatewaySuite) TestFetchAccount() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/accounts/acc_1", r.URL.Path)
		s.Equal("Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("ETag", `"7"`)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":             "acc_1",
			"owner_username": "alice",
			"balance":        "120.50",
			"version":        6,
		})
	}

	acc := s.gateway.FetchAccount(context.Background(), "acc_1", Credentials{Token: "tok"})
	s.False(acc.Degraded())
	s.Equal("alice", acc.OwnerUsername)
	s.True(decimal.RequireFromString("120.50").Equal(acc.Balance))
	s.Equal(int64(7), acc.Version)
	s.True(acc.OwnedBy("alice"))
	s.False(acc.OwnedBy("bob"))
}

func (s *AccountGatewaySuite) TestFetchAccountNotFound() {
	acc := s.gateway.FetchAccount(context.Background(), "missing", Credentials{})
	s.True(acc.Degraded())
	s.Equal(OwnerNotFound, acc.OwnerUsername)
	for _, u := range callerUsernames {
		s.False(acc.OwnedBy(u), u)
	}
}

func (s *AccountGatewaySuite) TestFetchAccountTimeout() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}

	start := time.Now()
	acc := s.gateway.FetchAccount(context.Background(), "acc_1", Credentials{})
	s.Less(time.Since(start), 900*time.Millisecond)
	s.True(acc.Degraded())
	s.Equal(OwnerUnavailable, acc.OwnerUsername)
	for _, u := range callerUsernames {
		s.False(acc.OwnedBy(u), u)
	}
}

func (s *AccountGatewaySuite) TestFetchAccountServerErrorAndGarbage() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}
	acc := s.gateway.FetchAccount(context.Background(), "acc_1", Credentials{})
	s.Equal(OwnerUnavailable, acc.OwnerUsername)

	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": `))
	}
	acc = s.gateway.FetchAccount(context.Background(), "acc_1", Credentials{})
	s.Equal(OwnerUnavailable, acc.OwnerUsername)
	s.False(acc.OwnedBy("Exception"))
}

func (s *AccountGatewaySuite) TestDebitAccount() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPut, r.Method)
		s.Equal("/v1/accounts/acc_1/balance", r.URL.Path)
		s.Equal(`"3"`, r.Header.Get("If-Match"))
		s.Equal("req-9", r.Header.Get("X-Request-ID"))
		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		s.Require().NoError(json.Unmarshal(body, &req))
		s.Equal("-25", req["amount"])
		w.Header().Set("ETag", `"4"`)
		w.WriteHeader(http.StatusOK)
	}

	err := s.gateway.DebitAccount(context.Background(), "acc_1", decimal.NewFromInt(25), 3, Credentials{RequestID: "req-9"})
	s.NoError(err)
}

func (s *AccountGatewaySuite) TestDebitAccountErrors() {
	tests := []struct {
		status   int
		code     string
		expected error
	}{
		{http.StatusPaymentRequired, "insufficient_funds", ierr.ErrInsufficientFunds},
		{http.StatusPreconditionFailed, "version_stale", ierr.ErrVersionStale},
		{http.StatusPreconditionFailed, "version_ahead", ierr.ErrVersionAhead},
		{http.StatusPreconditionRequired, "version_required", ierr.ErrVersionRequired},
		{http.StatusNotFound, "not_found", ierr.ErrNotFound},
		{http.StatusInternalServerError, "system_error", ierr.ErrHTTPClient},
	}

	for _, tt := range tests {
		s.Run(tt.code, func() {
			s.handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   map[string]any{"message": "x", "code": tt.code},
				})
			}
			err := s.gateway.DebitAccount(context.Background(), "acc_1", decimal.NewFromInt(1), 1, Credentials{})
			s.Require().Error(err)
			s.True(ierr.Is(err, tt.expected))
		})
	}
}

func TestNilRemoteAccountIsNotOwned(t *testing.T) {
	var acc *RemoteAccount
	assert.False(t, acc.OwnedBy("alice"))
	require.True(t, NewDegradedAccount("x", OwnerNotFound).Degraded())
}

func (s *AccountGatewaySuite) TestRateLimitDegradesInsteadOfQueueing() {
	calls := 0
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "acc_1", "owner_username": "alice", "version": 0})
	}

	cfg := config.GetDefaultConfig()
	cfg.AccountService.BaseURL = s.server.URL
	cfg.AccountService.Timeout = 100 * time.Millisecond
	cfg.AccountService.RateLimit = 1
	cfg.AccountService.RateBurst = 1
	log := logger.NewNoopLogger()
	client := httpclient.NewDefaultClient(httpclient.ClientConfig{Timeout: cfg.AccountService.Timeout}, log)
	limited := NewAccountGateway(cfg, client, log)

	first := limited.FetchAccount(context.Background(), "acc_1", Credentials{})
	s.False(first.Degraded())

	second := limited.FetchAccount(context.Background(), "acc_1", Credentials{})
	s.True(second.Degraded())
	s.Equal(OwnerUnavailable, second.OwnerUsername)

	err := limited.DebitAccount(context.Background(), "acc_1", decimal.NewFromInt(5), 0, Credentials{})
	s.True(ierr.IsHTTPClient(err))
	s.Equal(1, calls)
}

func TestNewLimiterDisabled(t *testing.T) {
	l := newLimiter(config.AccountServiceConfig{})
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow())
	}
	assert.Equal(t, 1, newLimiter(config.AccountServiceConfig{RateLimit: 5}).Burst())
}
