// Package catalog defines the product domain model and its key-value
// (de)serialization contract.
package catalog

import (
	"encoding/json"
	"strings"

	catalogerrors "github.com/acmeshop/catalog/internal/errors"
	"github.com/shopspring/decimal"
)

// Product is the domain entity. An ID of zero means the product is transient
// and has never been persisted; once persisted the ID is immutable.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
	Category    Category
}

// Serialize produces the plain key-value representation of the product.
// Price is emitted as text to avoid floating-point precision loss and
// category as its name.
func (p *Product) Serialize() map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.String(),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
}

// Deserialize reconstructs the product fields from a key-value mapping.
// Every violation of the field contract yields a DataValidationError:
// missing required keys, a non-boolean available flag, a category that does
// not resolve to a member of the closed set, or an unparseable price.
// The receiver is only mutated when the whole mapping is valid.
func (p *Product) Deserialize(data map[string]any) error {
	name, err := stringAttribute(data, "name")
	if err != nil {
		return err
	}
	description, err := stringAttribute(data, "description")
	if err != nil {
		return err
	}

	rawAvailable, ok := data["available"]
	if !ok {
		return catalogerrors.NewDataValidation("invalid product: missing available")
	}
	available, ok := rawAvailable.(bool)
	if !ok {
		return catalogerrors.NewDataValidation("invalid type for boolean [available]: %T", rawAvailable)
	}

	rawCategory, ok := data["category"]
	if !ok {
		return catalogerrors.NewDataValidation("invalid product: missing category")
	}
	categoryName, ok := rawCategory.(string)
	if !ok {
		return catalogerrors.NewDataValidation("invalid type for string [category]: %T", rawCategory)
	}
	category, err := ParseCategory(categoryName)
	if err != nil {
		return err
	}

	rawPrice, ok := data["price"]
	if !ok {
		return catalogerrors.NewDataValidation("invalid product: missing price")
	}
	price, err := ParsePrice(rawPrice)
	if err != nil {
		return err
	}

	id := p.ID
	if rawID, ok := data["id"]; ok && rawID != nil {
		id, err = parseID(rawID)
		if err != nil {
			return err
		}
	}

	p.ID = id
	p.Name = name
	p.Description = description
	p.Price = price
	p.Available = available
	p.Category = category
	return nil
}

// Validate checks the structural invariants required before persisting.
func (p *Product) Validate() error {
	if p.Name == "" {
		return catalogerrors.NewDataValidation("invalid product: name must not be empty")
	}
	if !p.Category.Valid() {
		return catalogerrors.NewDataValidation("invalid category: %d", int(p.Category))
	}
	return nil
}

// ParsePrice converts a textual or numeric price representation into an
// exact decimal. Textual prices may carry surrounding spaces or quotes.
func ParsePrice(v any) (decimal.Decimal, error) {
	switch value := v.(type) {
	case decimal.Decimal:
		return value, nil
	case string:
		return parsePriceString(value)
	case json.Number:
		return parsePriceString(value.String())
	case float64:
		return decimal.NewFromFloat(value), nil
	case float32:
		return decimal.NewFromFloat32(value), nil
	case int:
		return decimal.NewFromInt(int64(value)), nil
	case int64:
		return decimal.NewFromInt(value), nil
	default:
		return decimal.Decimal{}, catalogerrors.NewDataValidation("invalid type for price: %T", v)
	}
}

func parsePriceString(s string) (decimal.Decimal, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), `"`)
	price, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, catalogerrors.NewDataValidation("invalid price: %q", s)
	}
	return price, nil
}

func stringAttribute(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", catalogerrors.NewDataValidation("invalid product: missing %s", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", catalogerrors.NewDataValidation("invalid type for string [%s]: %T", key, raw)
	}
	return value, nil
}

func parseID(v any) (int64, error) {
	switch value := v.(type) {
	case int64:
		return value, nil
	case int:
		return int64(value), nil
	case float64:
		return int64(value), nil
	case json.Number:
		id, err := value.Int64()
		if err != nil {
			return 0, catalogerrors.NewDataValidation("invalid id: %q", value.String())
		}
		return id, nil
	default:
		return 0, catalogerrors.NewDataValidation("invalid type for id: %T", v)
	}
}
