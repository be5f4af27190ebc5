package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/validator"
)

// Stores holds all the repository implementations for testing
type Stores struct {
	CustomerRepo    *InMemoryCustomerStore
	AccountRepo     *InMemoryAccountStore
	InvoiceRepo     *InMemoryInvoiceStore
	TransactionRepo *InMemoryTransactionStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	publisher *InMemoryPublisherService
	gateway   *MockAccountGateway
	db        *MockPostgresClient
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	s.config = cfg
	s.logger = logger.NewNoopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		CustomerRepo:    NewInMemoryCustomerStore(),
		AccountRepo:     NewInMemoryAccountStore(),
		InvoiceRepo:     NewInMemoryInvoiceStore(),
		TransactionRepo: NewInMemoryTransactionStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.publisher = NewInMemoryEventPublisher()
	s.gateway = NewMockAccountGateway(s.stores.AccountRepo)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.CustomerRepo.Clear()
	s.stores.AccountRepo.Clear()
	s.stores.InvoiceRepo.Clear()
	s.stores.TransactionRepo.Clear()
	s.publisher.Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// SetContext replaces the test context, e.g. to act as another user
func (s *BaseServiceTestSuite) SetContext(ctx context.Context) {
	s.ctx = ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetPublisher returns the test event publisher
func (s *BaseServiceTestSuite) GetPublisher() *InMemoryPublisherService {
	return s.publisher
}

// GetAccountGateway returns the account gateway backed by the account store
func (s *BaseServiceTestSuite) GetAccountGateway() *MockAccountGateway {
	return s.gateway
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}
