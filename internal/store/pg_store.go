package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/acmeshop/catalog/internal/catalog"
	catalogerrors "github.com/acmeshop/catalog/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgStore implements ProductStore using PostgreSQL as the data store.
// The pool is handed in by the caller; the store never opens connections itself.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// Price is selected and compared as text so equality stays exact decimal
// equality; binary floats never enter the picture.
const productColumns = "id, name, description, price::text, available, category"

// Create inserts the product as a new row and assigns the store-generated ID.
// Returns a DataValidationError if the product fields are malformed.
func (s *PgStore) Create(ctx context.Context, p *catalog.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO products (name, description, price, available, category)
	          VALUES ($1, $2, $3::numeric, $4, $5) RETURNING id`
	err := s.db.QueryRow(ctx, query,
		p.Name, p.Description, p.Price.String(), p.Available, p.Category.String(),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update persists the product fields to the existing row, identifier unchanged.
// Returns a DataValidationError when the product has no identifier and
// ErrProductNotFound when the row no longer exists.
func (s *PgStore) Update(ctx context.Context, p *catalog.Product) error {
	if p.ID == 0 {
		return catalogerrors.NewDataValidation("update called with missing identifier")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	query := `UPDATE products
	          SET name = $2, description = $3, price = $4::numeric, available = $5, category = $6
	          WHERE id = $1`
	tag, err := s.db.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price.String(), p.Available, p.Category.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalogerrors.ErrProductNotFound
	}
	return nil
}

// Delete removes the row matching the product identifier. The in-memory ID is
// left as-is. Returns a DataValidationError for a transient product and
// ErrProductNotFound when no row matched.
func (s *PgStore) Delete(ctx context.Context, p *catalog.Product) error {
	if p.ID == 0 {
		return catalogerrors.NewDataValidation("delete called with missing identifier")
	}
	tag, err := s.db.Exec(ctx, "DELETE FROM products WHERE id = $1", p.ID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return catalogerrors.ErrProductNotFound
	}
	return nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *PgStore) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	product, err := scanProduct(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindAll retrieves every persisted product.
func (s *PgStore) FindAll(ctx context.Context) ([]catalog.Product, error) {
	return s.findWhere(ctx, "", nil)
}

// FindByName retrieves all products with an exact, case-sensitive name match.
func (s *PgStore) FindByName(ctx context.Context, name string) ([]catalog.Product, error) {
	return s.findWhere(ctx, "WHERE name = $1", []any{name})
}

// FindByAvailability retrieves all products with the matching availability flag.
func (s *PgStore) FindByAvailability(ctx context.Context, available bool) ([]catalog.Product, error) {
	return s.findWhere(ctx, "WHERE available = $1", []any{available})
}

// FindByCategory retrieves all products with the matching category.
func (s *PgStore) FindByCategory(ctx context.Context, category catalog.Category) ([]catalog.Product, error) {
	return s.findWhere(ctx, "WHERE category = $1", []any{category.String()})
}

// FindByPrice retrieves all products whose stored price equals the given decimal.
func (s *PgStore) FindByPrice(ctx context.Context, price decimal.Decimal) ([]catalog.Product, error) {
	return s.findWhere(ctx, "WHERE price = $1::numeric", []any{price.String()})
}

func (s *PgStore) findWhere(ctx context.Context, where string, args []any) ([]catalog.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if where != "" {
		query += " " + where
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]catalog.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var (
		p            catalog.Product
		priceText    string
		categoryName string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &priceText, &p.Available, &categoryName); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return nil, fmt.Errorf("invalid stored price %q: %w", priceText, err)
	}
	category, err := catalog.ParseCategory(categoryName)
	if err != nil {
		return nil, fmt.Errorf("invalid stored category %q: %w", categoryName, err)
	}
	p.Price = price
	p.Category = category
	return &p, nil
}
