// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/acmeshop/catalog/internal/catalog"
	"github.com/shopspring/decimal"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// The store proposes row-level mutations only; the transaction boundary stays
// with the caller that owns the connection handle.
type ProductStore interface {
	// Create inserts the product as a new row and assigns a fresh identifier.
	// Returns a DataValidationError if the product fields are malformed.
	Create(ctx context.Context, p *catalog.Product) error

	// Update persists the product fields to the existing row; the identifier
	// never changes. Returns a DataValidationError when the product was never
	// persisted (zero ID) and ErrProductNotFound when the row is gone.
	Update(ctx context.Context, p *catalog.Product) error

	// Delete removes the row matching the product identifier. The in-memory
	// ID is left untouched; the caller is expected to discard the object.
	// Returns a DataValidationError for a zero ID and ErrProductNotFound
	// when no row matched.
	Delete(ctx context.Context, p *catalog.Product) error

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*catalog.Product, error)

	// FindAll returns every persisted product in the store's enumeration order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]catalog.Product, error)

	// FindByName returns all products with an exact, case-sensitive name match.
	FindByName(ctx context.Context, name string) ([]catalog.Product, error)

	// FindByAvailability returns all products with the matching availability flag.
	FindByAvailability(ctx context.Context, available bool) ([]catalog.Product, error)

	// FindByCategory returns all products with the matching category.
	FindByCategory(ctx context.Context, category catalog.Category) ([]catalog.Product, error)

	// FindByPrice returns all products whose stored price equals the given
	// exact decimal.
	FindByPrice(ctx context.Context, price decimal.Decimal) ([]catalog.Product, error)
}
