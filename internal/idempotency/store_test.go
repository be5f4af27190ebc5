package idempotency

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybank/tallybank/internal/cache"
	"github.com/tallybank/tallybank/internal/config"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/logger"
)

func newStore() *Store {
	return NewStore(cache.NewInMemoryCache(time.Minute), config.GetDefaultConfig(), logger.NewNoopLogger())
}

func TestKeyIsScopedPerCaller(t *testing.T) {
	s := newStore()

	a := s.Key(ScopeInvoicePayment, "k1", "alice", "inv-1")
	assert.Equal(t, a, s.Key(ScopeInvoicePayment, "k1", "alice", "inv-1"))
	assert.NotEqual(t, a, s.Key(ScopeInvoicePayment, "k1", "bob", "inv-1"))
	assert.NotEqual(t, a, s.Key(ScopeInvoicePayment, "k1", "alice", "inv-2"))
}

func TestLookupReplaysRecordedResponse(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	key := s.Key(ScopeInvoicePayment, "k1", "alice", "inv-1")
	fp := Fingerprint([]byte(`{"amount":"10"}`))

	resp, err := s.Lookup(ctx, ScopeInvoicePayment, key, fp)
	require.NoError(t, err)
	assert.Nil(t, resp)

	s.Save(ctx, ScopeInvoicePayment, key, &Response{
		StatusCode:  http.StatusOK,
		ETag:        `"2"`,
		Body:        []byte(`{"id":"inv-1"}`),
		Fingerprint: fp,
	})

	resp, err = s.Lookup(ctx, ScopeInvoicePayment, key, fp)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `"2"`, resp.ETag)
	assert.JSONEq(t, `{"id":"inv-1"}`, string(resp.Body))
}

func TestLookupRejectsDifferentRequest(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	key := s.Key(ScopeInvoicePayment, "k1", "alice", "inv-1")

	s.Save(ctx, ScopeInvoicePayment, key, &Response{StatusCode: http.StatusOK, Body: []byte(`{}`), Fingerprint: Fingerprint([]byte("a"))})

	_, err := s.Lookup(ctx, ScopeInvoicePayment, key, Fingerprint([]byte("b")))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestLookupOutcomes(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	key := s.Key(ScopeInvoicePayment, "k1", "alice", "inv-1")
	fp := Fingerprint([]byte(`{"amount":"10"}`))

	_, outcome, err := s.lookup(ctx, key, fp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMiss, outcome)

	s.cache.Set(ctx, key, []byte("not json"), 0)
	_, outcome, err = s.lookup(ctx, key, fp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrupt, outcome)
	_, found := s.cache.Get(ctx, key)
	assert.False(t, found, "corrupt record is dropped")

	s.Save(ctx, ScopeInvoicePayment, key, &Response{StatusCode: http.StatusOK, Body: []byte(`{}`), Fingerprint: fp})
	_, outcome, err = s.lookup(ctx, key, fp)
	require.NoError(t, err)
	assert.Equal(t, OutcomeHit, outcome)

	_, outcome, err = s.lookup(ctx, key, Fingerprint([]byte("other")))
	require.Error(t, err)
	assert.Equal(t, OutcomeMismatch, outcome)
}

func TestReplaySpanTagsScopeAndOutcome(t *testing.T) {
	assert.Nil(t, startReplaySpan(context.Background(), ScopeInvoicePayment, "get"))

	ctx := sentry.SetHubOnContext(context.Background(), sentry.NewHub(nil, sentry.NewScope()))
	span := startReplaySpan(ctx, ScopeInvoicePayment, "get")
	require.NotNil(t, span)
	assert.Equal(t, "cache.get", span.Op)
	assert.Equal(t, "idempotency.invoice_payment.get", span.Description)

	finishReplaySpan(span, OutcomeMismatch)
	assert.Equal(t, string(ScopeInvoicePayment), span.Tags["idempotency.scope"])
	assert.Equal(t, string(OutcomeMismatch), span.Tags["idempotency.outcome"])
	assert.Equal(t, false, span.Data["cache.hit"])
	assert.Equal(t, sentry.SpanStatusInvalidArgument, span.Status)
}
