package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybank/tallybank/internal/types"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("TALLYBANK_DEPLOYMENT_MODE", "invoice")
	t.Setenv("TALLYBANK_POSTGRES_HOST", "db")
	t.Setenv("TALLYBANK_POSTGRES_USER", "u")
	t.Setenv("TALLYBANK_POSTGRES_PASSWORD", "p")
	t.Setenv("TALLYBANK_POSTGRES_DBNAME", "bank")
	t.Setenv("TALLYBANK_AUTH_SECRET", "s3cr3t")
	t.Setenv("TALLYBANK_ACCOUNT_SERVICE_BASE_URL", "http://accounts:8080")
	t.Setenv("TALLYBANK_ACCOUNT_SERVICE_TIMEOUT", "2s")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, types.ModeInvoice, cfg.Deployment.Mode)
	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, "http://accounts:8080", cfg.AccountService.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.AccountService.Timeout)
	assert.Equal(t, types.PubSubMemory, cfg.PubSub.Type)
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Postgres = PostgresConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	cfg.Auth.Secret = "s"
	require.NoError(t, cfg.Validate())

	cfg.Deployment.Mode = "billing"
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	c := PostgresConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "user=u password=p dbname=d host=h port=5432 sslmode=disable", c.GetDSN())
}
