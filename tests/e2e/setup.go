//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"order-fulfillment/cmd/bootstrap"
	"order-fulfillment/cmd/bootstrap/components"
	"order-fulfillment/internal/infra/db"
	"order-fulfillment/internal/pkg/config"
	"order-fulfillment/tests/common/dbtest"

	"github.com/cenkalti/backoff/v4"
	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgPort     = nat.Port("5432/tcp")
)

var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgStartErr  error
)

// SharedSuite boots one postgres database and one fx app per test process.
// Every subtest starts from empty tables.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	gin.SetMode(gin.TestMode)

	addr := postgresAddr(t)
	pool, dbCfg := createDatabase(t, addr)

	s.DB = pool
	s.Config = e2eConfig(dbCfg)
	s.Router = startApp(t, s.Config)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "reset database")
}

func postgresAddr(t *testing.T) string {
	t.Helper()
	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		pgContainer, pgStartErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Name:         "order-fulfillment-postgres-e2e",
				Image:        "postgres:17",
				ExposedPorts: []string{string(pgPort)},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				// Durability is irrelevant for throwaway data.
				Cmd: []string{"postgres",
					"-c", "fsync=off",
					"-c", "synchronous_commit=off",
					"-c", "full_page_writes=off",
					"-c", "max_connections=200",
				},
				Labels: map[string]string{"purpose": "e2e-tests"},
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return adminDSN(host + ":" + port.Port())
				}).WithStartupTimeout(time.Minute),
			},
			Started: true,
		})
	})
	require.NoError(t, pgStartErr, "start postgres container")

	ctx := context.Background()
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, pgPort)
	require.NoError(t, err)
	return host + ":" + port.Port()
}

func adminDSN(addr string) string {
	return fmt.Sprintf("postgres://%s:%s@%s/postgres?sslmode=disable", pgUser, pgPassword, addr)
}

// createDatabase creates a uniquely named database, applies the schema and
// drops it again when the test process is done with it.
func createDatabase(t *testing.T, addr string) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	name := "orders_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	admin, err := pgxpool.New(ctx, adminDSN(addr))
	require.NoError(t, err, "admin connection")
	defer admin.Close()

	// CREATE DATABASE fails while another session holds template1.
	create := func() error {
		_, err := admin.Exec(ctx, "CREATE DATABASE "+name)
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 5), ctx)
	require.NoError(t, backoff.RetryNotify(create, policy, func(err error, d time.Duration) {
		slog.Warn("Retrying database creation", "database", name, "error", err, "wait", d)
	}), "create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, adminDSN(addr))
		if err != nil {
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("Failed to drop test database", "database", name, "error", err)
		}
	})

	host, port, _ := strings.Cut(addr, ":")
	dbCfg := config.DBConfig{
		Host:     host,
		Port:     port,
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 10,
	}

	pool, _, err := db.Connect(ctx, dbCfg)
	require.NoError(t, err, "connect test database")
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(ctx, pool), "apply schema")
	return pool, dbCfg
}

func e2eConfig(dbCfg config.DBConfig) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbCfg
	cfg.DB.Migrate = false
	cfg.Store.Driver = config.StoreDriverPostgres
	cfg.Relay.Enabled = true
	cfg.Sweeper.Enabled = true
	return cfg
}

// startApp wires the same modules as cmd/main.go minus the HTTP listener.
func startApp(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	var router *gin.Engine

	app := fx.New(
		fx.Module("e2econfig",
			fx.Provide(func() config.Config { return cfg }),
			bootstrap.ConfigSections,
		),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.TelemetryModule,
		bootstrap.DBModule,
		bootstrap.QueueModule,
		components.UseCaseModule,
		components.BackgroundModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "start fx app")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("Failed to stop fx app", "error", err)
		}
	})
	return router
}
