package integration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/inkwell-sh/inkwell/pkg/auth"
	"github.com/inkwell-sh/inkwell/pkg/cache"
	"github.com/inkwell-sh/inkwell/pkg/config"
	"github.com/inkwell-sh/inkwell/pkg/db"
	"github.com/inkwell-sh/inkwell/pkg/history"
	"github.com/inkwell-sh/inkwell/pkg/seal"
	"github.com/inkwell-sh/inkwell/pkg/server"
	"github.com/inkwell-sh/inkwell/pkg/server/endpoints"
)

// portCounter allocates unique ports for test servers.
var portCounter int32 = 19000

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	Container   testcontainers.Container
	DB          *gorm.DB
	DatabaseURL string
	DataKey     []byte
	Cipher      seal.SymmetricCipher
	Server      *server.Server
	ServerURL   string
	HTTPClient  *http.Client
}

// NewTestContext starts a PostgreSQL testcontainer, migrates it and runs
// an in-process Inkwell server against it.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("inkwell_test"),
		tcpostgres.WithUsername("inkwell"),
		tcpostgres.WithPassword("inkwell"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://inkwell:inkwell@%s:%s/inkwell_test?sslmode=disable", host, port.Port())

	if err := runMigrations(connStr, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	dataKey := make([]byte, 32)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	cipher, err := seal.NewSymmetric(dataKey)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gdb, err := db.Connect(db.Config{URL: connStr, Cipher: cipher, LogLevel: "error"})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := gdb.Use(history.NewPlugin()); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to install history plugin: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(auth.DeriveTokenKey(dataKey), time.Hour)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	htmlCache, _ := cache.NewFromURL("")

	serverPort := int(atomic.AddInt32(&portCounter, 1))
	s := server.NewServer(config.Get(), cipher, tokens, htmlCache, gdb, "127.0.0.1", fmt.Sprintf("%d", serverPort))
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	tc := &TestContext{
		Container:   pgContainer,
		DB:          gdb,
		DatabaseURL: connStr,
		DataKey:     dataKey,
		Cipher:      cipher,
		Server:      s,
		ServerURL:   fmt.Sprintf("http://127.0.0.1:%d", serverPort),
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}

	if err := tc.waitForServer(30); err != nil {
		tc.Close(ctx)
		return nil, err
	}
	return tc, nil
}

// Close shuts the server down and terminates the container.
func (tc *TestContext) Close(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = tc.Server.Shutdown(shutdownCtx)
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

func (tc *TestContext) waitForServer(retries int) error {
	for i := 0; i < retries; i++ {
		resp, err := tc.HTTPClient.Get(tc.ServerURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %d attempts", retries)
}

func runMigrations(dbURL, migrationsDir string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// findProjectRoot walks up from the working directory until it sees go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}
