// Package rest provides HTTP handlers for product-related operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	catalogerrors "github.com/acmeshop/catalog/internal/errors"
	"github.com/acmeshop/catalog/internal/service"
	"github.com/acmeshop/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the product API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// List retrieves products, optionally filtered by exactly one of the
// name, category, available or price query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	query := r.URL.Query()

	var (
		list []service.ProductDto
		err  error
	)
	switch {
	case query.Has("name"):
		list, err = h.service.FindByName(r.Context(), query.Get("name"))
	case query.Has("category"):
		list, err = h.service.FindByCategory(r.Context(), query.Get("category"))
	case query.Has("available"):
		var available bool
		available, err = strconv.ParseBool(query.Get("available"))
		if err != nil {
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid available flag: %s", query.Get("available")))
			return
		}
		list, err = h.service.FindByAvailability(r.Context(), available)
	case query.Has("price"):
		list, err = h.service.FindByPrice(r.Context(), query.Get("price"))
	default:
		list, err = h.service.FindAll(r.Context())
	}
	if err != nil {
		if catalogerrors.IsDataValidation(err) {
			mLogger.WarnContext(r.Context(), "Invalid product filter", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var productCreateDto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&productCreateDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to create product", "product", productCreateDto)
	if !h.validateStruct(w, r, mLogger, productCreateDto) {
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		if catalogerrors.IsDataValidation(err) {
			mLogger.WarnContext(r.Context(), "Invalid product payload", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// Update modifies an existing product identified by the path ID.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	var productDTO service.ProductDto
	if err := json.NewDecoder(r.Body).Decode(&productDTO); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, productDTO) {
		return
	}
	productDTO.ID = id

	updated, err := h.service.Update(r.Context(), productDTO)
	if err != nil {
		switch {
		case errors.Is(err, catalogerrors.ErrProductNotFound):
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
		case catalogerrors.IsDataValidation(err):
			mLogger.WarnContext(r.Context(), "Invalid product payload", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
		default:
			mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %d", id))
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID removes a product by its ID.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, catalogerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, mLogger, http.StatusNoContent, nil)
}

// HealthCheck responds with a simple status payload.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, map[string]string{"status": "ok"})
}

// validateStruct runs validator/v10 on the DTO and writes the field-level
// error response on failure. Returns true when the DTO is valid.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID returns a logger enriched with the request ID.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}
