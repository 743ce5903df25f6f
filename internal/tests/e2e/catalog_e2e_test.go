// Package e2e provides end-to-end tests for the catalog service.
// The suite spins up a real PostgreSQL instance with testcontainers-go,
// applies the migrations and runs the actual application handler in an
// httptest.Server.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/acmeshop/catalog/internal/app"
	"github.com/acmeshop/catalog/internal/service"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "CATALOG_SKIP_E2E_TESTS"

// productURL is the base URL for the catalog API.
const productURL = "/api/v1/products"

// CatalogE2ESuite is a test suite for end-to-end tests of the catalog service.
type CatalogE2ESuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	server      *httptest.Server
	httpClient  *http.Client
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite initializes the PostgreSQL container, the database schema and the application handler.
func (s *CatalogE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "catalog"
	dbUser := "user"
	dbPassword := "password"

	// 1. Start a PostgreSQL container and wait for it to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. Create a new pgxpool instance using the connection string
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgx pool")

	for i := range 10 {
		s.logger.Info("Pinging E2E PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 4. Apply the schema migrations
	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "..", "..", "..", "migrations")
	sourceURL := "file://" + migrationsPath
	m, err := migrate.New(sourceURL, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied for E2E tests")

	// 5. Run the actual application handler in an httptest server
	deps := app.SetupDependencies(s.dbPool, s.logger)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
	s.logger.Info("E2E test server started", "url", s.server.URL)
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *CatalogE2ESuite) TearDownSuite() {
	s.logger.Info("Tearing down E2E suite...")
	if s.server != nil {
		s.server.Close()
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("Failed to terminate E2E PostgreSQL container", "error", err)
		}
	}
}

// SetupTest prepares the database for each test by truncating the products table.
func (s *CatalogE2ESuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products RESTART IDENTITY")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

func boolPtr(b bool) *bool { return &b }

func (s *CatalogE2ESuite) createProduct(dto service.ProductCreateDto) service.ProductDto {
	body, err := json.Marshal(dto)
	require.NoError(s.T(), err)

	resp, err := s.httpClient.Post(s.server.URL+productURL, "application/json", bytes.NewReader(body))
	require.NoError(s.T(), err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	var created service.ProductDto
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func (s *CatalogE2ESuite) listProducts(query string) []service.ProductDto {
	resp, err := s.httpClient.Get(s.server.URL + productURL + query)
	require.NoError(s.T(), err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var list []service.ProductDto
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&list))
	return list
}

func (s *CatalogE2ESuite) TestProductLifecycle() {
	// create
	created := s.createProduct(service.ProductCreateDto{
		Name:        "Fedora",
		Description: "A red hat",
		Price:       "12.50",
		Available:   boolPtr(true),
		Category:    "CLOTHS",
	})
	require.NotZero(s.T(), created.ID)
	assert.Equal(s.T(), "12.5", created.Price)

	// read
	resp, err := s.httpClient.Get(fmt.Sprintf("%s%s/%d", s.server.URL, productURL, created.ID))
	require.NoError(s.T(), err)
	var fetched service.ProductDto
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&fetched))
	_ = resp.Body.Close()
	assert.Equal(s.T(), created, fetched)

	// update
	fetched.Description = "This is a new description"
	body, err := json.Marshal(fetched)
	require.NoError(s.T(), err)
	req, err := http.NewRequest(http.MethodPut, fmt.Sprintf("%s%s/%d", s.server.URL, productURL, created.ID), bytes.NewReader(body))
	require.NoError(s.T(), err)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var updated service.ProductDto
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&updated))
	_ = resp.Body.Close()
	assert.Equal(s.T(), created.ID, updated.ID)
	assert.Equal(s.T(), "This is a new description", updated.Description)

	// delete
	req, err = http.NewRequest(http.MethodDelete, fmt.Sprintf("%s%s/%d", s.server.URL, productURL, created.ID), nil)
	require.NoError(s.T(), err)
	resp, err = s.httpClient.Do(req)
	require.NoError(s.T(), err)
	_ = resp.Body.Close()
	require.Equal(s.T(), http.StatusNoContent, resp.StatusCode)

	assert.Empty(s.T(), s.listProducts(""))
}

func (s *CatalogE2ESuite) TestListFilters() {
	s.createProduct(service.ProductCreateDto{
		Name: "Hat", Price: "12.50", Available: boolPtr(true), Category: "CLOTHS",
	})
	s.createProduct(service.ProductCreateDto{
		Name: "Big Mac", Price: "5.99", Available: boolPtr(false), Category: "FOOD",
	})
	s.createProduct(service.ProductCreateDto{
		Name: "Hammer", Price: "12.50", Available: boolPtr(true), Category: "TOOLS",
	})

	assert.Len(s.T(), s.listProducts(""), 3)
	assert.Len(s.T(), s.listProducts("?name=Hat"), 1)
	assert.Len(s.T(), s.listProducts("?category=TOOLS"), 1)
	assert.Len(s.T(), s.listProducts("?available=false"), 1)

	// textual and decimal price forms resolve to the same result set
	assert.Len(s.T(), s.listProducts("?price=12.50"), 2)
	assert.Len(s.T(), s.listProducts("?price=12.5"), 2)

	// names outside the closed category set are rejected
	resp, err := s.httpClient.Get(s.server.URL + productURL + "?category=SHOES")
	require.NoError(s.T(), err)
	_ = resp.Body.Close()
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *CatalogE2ESuite) TestCreateRejectsInvalidPayloads() {
	testCases := []struct {
		name string
		body string
	}{
		{name: "available as string", body: `{"name":"Hat","price":"12.50","available":"true","category":"CLOTHS"}`},
		{name: "category as number", body: `{"name":"Hat","price":"12.50","available":true,"category":7887}`},
		{name: "unknown category", body: `{"name":"Hat","price":"12.50","available":true,"category":"some text"}`},
		{name: "missing name", body: `{"price":"12.50","available":true,"category":"CLOTHS"}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.httpClient.Post(s.server.URL+productURL, "application/json", bytes.NewReader([]byte(tc.body)))
			require.NoError(s.T(), err)
			_ = resp.Body.Close()
			assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
		})
	}
}

// TestCatalogE2E runs the catalog end-to-end test suite.
func TestCatalogE2E(t *testing.T) {
	// Skip E2E tests if the environment variable is set
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(CatalogE2ESuite))
}
