package types

type RunMode string

const (
	// ModeLocal runs every service in a single process
	ModeLocal RunMode = "local"
	// ModeCustomer runs only the customer service
	ModeCustomer RunMode = "customer"
	// ModeAccount runs only the account service
	ModeAccount RunMode = "account"
	// ModeInvoice runs only the invoice service
	ModeInvoice RunMode = "invoice"
	// ModeTransaction runs only the transaction service and its event consumer
	ModeTransaction RunMode = "transaction"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

type PubSubType string

const (
	PubSubMemory PubSubType = "memory"
	PubSubKafka  PubSubType = "kafka"
)
