package testutil

import (
	"context"

	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

type txKey struct{}

// MockPostgresClient is a mock implementation of postgres client for testing
type MockPostgresClient struct {
	logger *logger.Logger
	// Commits counts the outermost transactions that completed without error
	Commits int
}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function within a transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	// If we're already in a transaction, reuse it
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	// For testing, we just execute the function without a real transaction
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	c.Commits++
	return nil
}
