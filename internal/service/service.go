// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"

	"github.com/acmeshop/catalog/internal/catalog"
	"github.com/acmeshop/catalog/internal/store"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindAll returns every persisted product.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByName returns all products with an exact, case-sensitive name match.
	FindByName(ctx context.Context, name string) ([]ProductDto, error)

	// FindByAvailability returns all products with the matching availability flag.
	FindByAvailability(ctx context.Context, available bool) ([]ProductDto, error)

	// FindByCategory returns all products whose category matches the given name.
	// Returns a DataValidationError for names outside the closed category set.
	FindByCategory(ctx context.Context, categoryName string) ([]ProductDto, error)

	// FindByPrice returns all products whose price equals the given value.
	// The price may be the textual form of the decimal; both resolve to the
	// identical equality comparison against stored prices.
	FindByPrice(ctx context.Context, price string) ([]ProductDto, error)

	// Create adds a new product and returns it with the assigned identifier.
	// Returns a DataValidationError if the product fields are malformed.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update modifies an existing product's details, identifier unchanged.
	// Returns a DataValidationError when the ID is missing and
	// ErrProductNotFound when the row is gone.
	Update(ctx context.Context, product ProductDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
// Price travels as text so exact decimals survive JSON.
type ProductCreateDto struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description"`
	Price       string `json:"price"       validate:"required"`
	Available   *bool  `json:"available"   validate:"required"`
	Category    string `json:"category"    validate:"required"`
}

// ProductDto represents the data transfer object for a product.
// It mirrors the serialized key-value shape of the domain model.
type ProductDto struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description"`
	Price       string `json:"price"       validate:"required"`
	Available   *bool  `json:"available"   validate:"required"`
	Category    string `json:"category"    validate:"required"`
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

// FindAll retrieves every persisted product as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

// FindByName retrieves all products with the exact name.
func (s *Service) FindByName(ctx context.Context, name string) ([]ProductDto, error) {
	products, err := s.repository.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by name %q: %w", name, err)
	}
	return toDtos(products), nil
}

// FindByAvailability retrieves all products with the matching availability flag.
func (s *Service) FindByAvailability(ctx context.Context, available bool) ([]ProductDto, error) {
	products, err := s.repository.FindByAvailability(ctx, available)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by availability %t: %w", available, err)
	}
	return toDtos(products), nil
}

// FindByCategory resolves the category name against the closed set and
// retrieves all matching products.
func (s *Service) FindByCategory(ctx context.Context, categoryName string) ([]ProductDto, error) {
	category, err := catalog.ParseCategory(categoryName)
	if err != nil {
		return nil, err
	}
	products, err := s.repository.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by category %s: %w", category, err)
	}
	return toDtos(products), nil
}

// FindByPrice parses the price into an exact decimal and retrieves all
// products with an equal stored price.
func (s *Service) FindByPrice(ctx context.Context, price string) ([]ProductDto, error) {
	parsed, err := catalog.ParsePrice(price)
	if err != nil {
		return nil, err
	}
	products, err := s.repository.FindByPrice(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by price %s: %w", parsed, err)
	}
	return toDtos(products), nil
}

// Create creates a new product and returns it as a ProductDto.
// Returns a DataValidationError if the product fields are malformed.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	p, err := toDomain(ProductDto{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Available:   product.Available,
		Category:    product.Category,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(p), nil
}

// Update modifies an existing product's details and returns the updated product.
// Returns a DataValidationError when the ID is missing and ErrProductNotFound
// when no row exists for it.
func (s *Service) Update(ctx context.Context, product ProductDto) (*ProductDto, error) {
	p, err := toDomain(product)
	if err != nil {
		return nil, err
	}
	if err := s.repository.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", product.ID, err)
	}
	return toDto(p), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	return s.repository.Delete(ctx, &catalog.Product{ID: id})
}

// toDto converts a catalog.Product to a ProductDto.
func toDto(product *catalog.Product) *ProductDto {
	available := product.Available
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.String(),
		Available:   &available,
		Category:    product.Category.String(),
	}
}

func toDtos(products []catalog.Product) []ProductDto {
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	return productDTOs
}

// toDomain converts a ProductDto to a catalog.Product, reusing the domain
// deserialization contract so the same validation applies on every path.
func toDomain(dto ProductDto) (*catalog.Product, error) {
	data := map[string]any{
		"id":          dto.ID,
		"name":        dto.Name,
		"description": dto.Description,
		"price":       dto.Price,
		"category":    dto.Category,
	}
	if dto.Available != nil {
		data["available"] = *dto.Available
	}
	var p catalog.Product
	if err := p.Deserialize(data); err != nil {
		return nil, err
	}
	return &p, nil
}
