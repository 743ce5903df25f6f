package catalog

import (
	catalogerrors "github.com/acmeshop/catalog/internal/errors"
)

// Category classifies a product. The set is closed: deserialization rejects
// anything that does not resolve to one of the members by name.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryAutomotive
	CategoryTools
)

var categoryNames = map[Category]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryAutomotive: "AUTOMOTIVE",
	CategoryTools:      "TOOLS",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, name := range categoryNames {
		m[name] = c
	}
	return m
}()

// String returns the category name, e.g. "CLOTHS".
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory resolves a category by its exact name.
// Returns a DataValidationError for names outside the closed set.
func ParseCategory(name string) (Category, error) {
	if c, ok := categoriesByName[name]; ok {
		return c, nil
	}
	return CategoryUnknown, catalogerrors.NewDataValidation("invalid category: %q", name)
}

// Categories returns all members of the closed category set.
func Categories() []Category {
	return []Category{
		CategoryUnknown,
		CategoryCloths,
		CategoryFood,
		CategoryHousewares,
		CategoryAutomotive,
		CategoryTools,
	}
}
