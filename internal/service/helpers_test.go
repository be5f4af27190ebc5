package service

import (
	"github.com/tallybank/tallybank/internal/sentry"
	"github.com/tallybank/tallybank/internal/testutil"
)

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
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
}
