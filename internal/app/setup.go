// Package app contains the application setup for the catalog service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/acmeshop/catalog/internal/config"
	"github.com/acmeshop/catalog/internal/service"
	"github.com/acmeshop/catalog/internal/store"
	"github.com/acmeshop/catalog/internal/transport/rest"
	"github.com/acmeshop/catalog/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, logger *slog.Logger) *Dependencies {
	pService := service.NewService(store.NewPgStore(dbPool))

	return &Dependencies{
		ProductService: pService,
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the catalog service.
// Used by tests to exercise the full routing stack without a listener.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
