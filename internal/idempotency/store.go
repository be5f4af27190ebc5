package idempotency

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tallybank/tallybank/internal/cache"
	"github.com/tallybank/tallybank/internal/config"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/logger"
)

// Response is a recorded outcome that is replayed for a repeated key
type Response struct {
	StatusCode  int             `json:"status_code"`
	ETag        string          `json:"etag,omitempty"`
	Body        json.RawMessage `json:"body"`
	Fingerprint string          `json:"fingerprint"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// Store is a replay cache keyed by client supplied Idempotency-Key values.
// It holds no state of its own beyond what the cache keeps.
type Store struct {
	cache     cache.Cache
	generator *Generator
	ttl       time.Duration
	logger    *logger.Logger
}

func NewStore(c cache.Cache, cfg *config.Configuration, logger *logger.Logger) *Store {
	return &Store{
		cache:     c,
		generator: NewGenerator(),
		ttl:       cfg.Cache.TTL,
		logger:    logger,
	}
}

// Key scopes a client key to the caller and target resource so that two
// callers never share a recorded response
func (s *Store) Key(scope Scope, clientKey, username, resourceID string) string {
	return cache.GenerateKey(cache.PrefixIdempotency, s.generator.GenerateKey(scope, map[string]interface{}{
		"key":      clientKey,
		"username": username,
		"resource": resourceID,
	}))
}

// Lookup returns the response recorded under key. A recorded response whose
// fingerprint differs from the current request is rejected.
func (s *Store) Lookup(ctx context.Context, scope Scope, key, fingerprint string) (*Response, error) {
	span := startReplaySpan(ctx, scope, "get")
	resp, outcome, err := s.lookup(ctx, key, fingerprint)
	finishReplaySpan(span, outcome)
	return resp, err
}

func (s *Store) lookup(ctx context.Context, key, fingerprint string) (*Response, Outcome, error) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, OutcomeMiss, nil
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warnw("dropping unreadable idempotency record", "key", key, "error", err)
		s.cache.Delete(ctx, key)
		return nil, OutcomeCorrupt, nil
	}

	if resp.Fingerprint != fingerprint {
		return nil, OutcomeMismatch, ierr.NewError("idempotency key reused with a different request").
			WithHint("The Idempotency-Key was already used for a different request").
			Mark(ierr.ErrValidation)
	}
	return &resp, OutcomeHit, nil
}

// Save records resp under key
func (s *Store) Save(ctx context.Context, scope Scope, key string, resp *Response) {
	span := startReplaySpan(ctx, scope, "put")
	defer finishReplaySpan(span, OutcomeRecorded)

	resp.RecordedAt = time.Now().UTC()
	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warnw("failed to encode idempotency record", "key", key, "error", err)
		return
	}
	s.cache.Set(ctx, key, raw, s.ttl)
}
