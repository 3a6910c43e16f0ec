//go:build integration

package application

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/rafabene/seguros-backoffice/internal/domain/entities"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/config"
	"github.com/rafabene/seguros-backoffice/internal/infrastructure/logging"
	"github.com/rafabene/seguros-backoffice/internal/services"
)

func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("sistema_seguros"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return config.DatabaseConfig{
		Host:        host,
		Port:        port.Int(),
		User:        "postgres",
		Password:    "postgres",
		DBName:      "sistema_seguros",
		SSLMode:     "disable",
		MaxConns:    5,
		MinConns:    1,
		MaxIdleTime: 60,
	}
}

func TestApp_PostgresWithAuditFallback(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := &config.Config{
		Env:      "test",
		Language: "pt-BR",
		Database: startPostgres(t),
		Mongo: config.MongoConfig{
			Host:     "127.0.0.1",
			Port:     1,
			Database: "sistema_seguros_logs",
			Timeout:  300 * time.Millisecond,
		},
		Auth: config.AuthConfig{
			DefaultAdminPassword: "senha123",
			JWTSecret:            "segredo",
			TokenTTL:             time.Hour,
		},
		Logging: config.LoggingConfig{AuditFile: filepath.Join(dir, "auditoria.log")},
		Export:  config.ExportConfig{Dir: filepath.Join(dir, "export")},
	}

	app, err := New(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	assert.True(t, app.UsingFallback())

	report, err := app.Setup(ctx)
	require.NoError(t, err)
	assert.True(t, report.AdminCreated)
	assert.Nil(t, report.Collections)
	assert.Len(t, report.Tables, 5)

	again, err := app.Setup(ctx)
	require.NoError(t, err)
	assert.False(t, again.AdminCreated)

	user, err := app.Auth.Login(ctx, "admin", "senha123")
	require.NoError(t, err)
	actor := services.ActorFor(user, "sessao-integracao")

	birth := time.Date(1980, 5, 10, 0, 0, 0, 0, time.UTC)
	customer, err := app.Customers.Create(ctx, actor, services.CustomerInput{
		Name:      "Maria da Silva",
		CPF:       "529.982.247-25",
		Phone:     "11999990000",
		Email:     "maria@exemplo.com",
		BirthDate: &birth,
		Address:   "Rua A, 1",
	})
	require.NoError(t, err)

	_, err = app.Customers.Create(ctx, actor, services.CustomerInput{
		Name:      "Outra Maria",
		CPF:       "52998224725",
		BirthDate: &birth,
	})
	assert.Error(t, err)

	entries, err := app.Audit.Query(ctx, entities.AuditFilter{Entity: entities.EntityCustomer, Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "admin", entries[0].Username)

	results, err := app.Exports.ExportAll(ctx, actor)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, 1, results[0].Records)
	assert.NotZero(t, customer.ID)
}
