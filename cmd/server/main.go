package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/tallybank/tallybank/docs/swagger"
	"github.com/tallybank/tallybank/internal/api"
	v1 "github.com/tallybank/tallybank/internal/api/v1"
	"github.com/tallybank/tallybank/internal/auth"
	"github.com/tallybank/tallybank/internal/cache"
	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/gateway"
	"github.com/tallybank/tallybank/internal/httpclient"
	"github.com/tallybank/tallybank/internal/idempotency"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
	"github.com/tallybank/tallybank/internal/publisher"
	"github.com/tallybank/tallybank/internal/pubsub"
	"github.com/tallybank/tallybank/internal/pubsub/kafka"
	"github.com/tallybank/tallybank/internal/pubsub/memory"
	pubsubRouter "github.com/tallybank/tallybank/internal/pubsub/router"
	"github.com/tallybank/tallybank/internal/repository"
	"github.com/tallybank/tallybank/internal/sentry"
	"github.com/tallybank/tallybank/internal/service"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/validator"
	"go.uber.org/fx"
)

// @title TallyBank API
// @version 1.0
// @description Customers, accounts, invoices and the transaction ledger
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Cache
			cache.NewCache,
			idempotency.NewStore,

			// Postgres
			providePostgres,
			func(db *postgres.DB) postgres.IClient { return db },

			// PubSub
			providePubSub,
			func(ps pubsub.PubSub) pubsub.Publisher { return ps },
			publisher.NewEventPublisher,
			pubsubRouter.NewRouter,

			// HTTP Client
			provideHTTPClientConfig,
			httpclient.NewDefaultClient,

			// Remote entities
			gateway.NewAccountGateway,

			// Auth
			auth.NewProvider,

			// Repositories
			repository.NewCustomerRepository,
			repository.NewAccountRepository,
			repository.NewInvoiceRepository,
			repository.NewTransactionRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCustomerService,
			service.NewAccountService,
			service.NewInvoiceService,
			service.NewTransactionService,
			service.NewEventConsumptionService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePostgres(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (*postgres.DB, error) {
	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
	return db, nil
}

// providePubSub returns the broker shared by the publisher and the message
// router. The in-memory broker only delivers within this process.
func providePubSub(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) (pubsub.PubSub, error) {
	var (
		ps  pubsub.PubSub
		err error
	)
	switch cfg.PubSub.Type {
	case types.PubSubKafka:
		ps, err = kafka.NewPubSub(cfg, log)
		if err != nil {
			return nil, err
		}
	default:
		ps = memory.NewPubSub(log)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ps.Close()
		},
	})
	return ps, nil
}

func provideHTTPClientConfig(cfg *config.Configuration) httpclient.ClientConfig {
	return httpclient.ClientConfig{
		Timeout:  cfg.AccountService.Timeout,
		RetryMax: cfg.AccountService.RetryMax,
	}
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	customerService service.CustomerService,
	accountService service.AccountService,
	invoiceService service.InvoiceService,
	transactionService service.TransactionService,
	replay *idempotency.Store,
) api.Handlers {
	return api.Handlers{
		Health:      v1.NewHealthHandler(cfg, logger),
		Customer:    v1.NewCustomerHandler(customerService, logger),
		Account:     v1.NewAccountHandler(accountService, logger),
		Invoice:     v1.NewInvoiceHandler(invoiceService, replay, logger),
		Transaction: v1.NewTransactionHandler(transactionService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	ps pubsub.PubSub,
	consumer service.EventConsumptionService,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeTransaction:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, ps, consumer, cfg, log)
	case types.ModeCustomer, types.ModeAccount, types.ModeInvoice:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Infow("registering API server start hook", "mode", cfg.Deployment.Mode)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return nil
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	subscriber pubsub.Subscriber,
	consumer service.EventConsumptionService,
	cfg *config.Configuration,
	logger *logger.Logger,
) {
	// Register handlers before starting the router
	consumer.RegisterHandler(router, subscriber, cfg)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting message router")
			go func() {
				if err := router.Run(context.Background()); err != nil {
					logger.Errorw("message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping message router")
			return router.Close()
		},
	})
}
