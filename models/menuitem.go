package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the fixed set of menu sections. Values are stored
// uppercase; inbound values are canonicalized with ParseCategory so
// creation, storage and filtering all agree on case.
type Category string

const (
	CategoryAppetizer  Category = "APPETIZER"
	CategoryMainCourse Category = "MAIN_COURSE"
	CategoryDessert    Category = "DESSERT"
	CategoryBeverage   Category = "BEVERAGE"
	CategorySide       Category = "SIDE"
	CategorySalad      Category = "SALAD"
	CategorySoup       Category = "SOUP"
	CategorySpecial    Category = "SPECIAL"
)

var validCategories = map[Category]bool{
	CategoryAppetizer:  true,
	CategoryMainCourse: true,
	CategoryDessert:    true,
	CategoryBeverage:   true,
	CategorySide:       true,
	CategorySalad:      true,
	CategorySoup:       true,
	CategorySpecial:    true,
}

// ParseCategory canonicalizes a caller-supplied category value. The
// boolean reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	return c, validCategories[c]
}

// Allergens recognized on menu items.
var validAllergens = map[string]bool{
	"gluten":    true,
	"dairy":     true,
	"nuts":      true,
	"eggs":      true,
	"soy":       true,
	"shellfish": true,
	"fish":      true,
}

type NutritionalInfo struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type MenuItem struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	Name            string           `json:"name" gorm:"uniqueIndex;not null"`
	Price           float64          `json:"price" gorm:"not null"`
	Description     string           `json:"description"`
	FeaturedImage   string           `json:"featuredImage"`
	Images          []string         `json:"images" gorm:"serializer:json"`
	IsAvailable     bool             `json:"isAvailable" gorm:"not null;default:true"`
	Ingredients     string           `json:"ingredients"`
	Category        Category         `json:"category" gorm:"not null;index"`
	PreparationTime *int             `json:"preparationTime,omitempty"`
	NutritionalInfo *NutritionalInfo `json:"nutritionalInfo,omitempty" gorm:"serializer:json"`
	Allergens       []string         `json:"allergens" gorm:"serializer:json"`
	SpicyLevel      int              `json:"spicyLevel" gorm:"not null;default:0"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Validate checks every field constraint and returns human-readable
// messages for the violations. An empty slice means the item is valid.
func (m *MenuItem) Validate() []string {
	var errs []string

	name := strings.TrimSpace(m.Name)
	if name == "" {
		errs = append(errs, "name is required")
	} else if len(name) < 2 || len(name) > 100 {
		errs = append(errs, "name must be between 2 and 100 characters")
	}

	if m.Price < 0 {
		errs = append(errs, "price must be greater than or equal to 0")
	}

	if len(m.Description) > 1000 {
		errs = append(errs, "description must be at most 1000 characters")
	}

	for i, img := range m.Images {
		if strings.TrimSpace(img) == "" {
			errs = append(errs, fmt.Sprintf("images[%d] must be a non-empty URL", i))
		}
	}

	if len(m.Ingredients) > 500 {
		errs = append(errs, "ingredients must be at most 500 characters")
	}

	if !validCategories[m.Category] {
		errs = append(errs, fmt.Sprintf("category %q is not a recognized category", m.Category))
	}

	if m.PreparationTime != nil && (*m.PreparationTime < 1 || *m.PreparationTime > 180) {
		errs = append(errs, "preparationTime must be between 1 and 180 minutes")
	}

	if n := m.NutritionalInfo; n != nil {
		if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 {
			errs = append(errs, "nutritionalInfo values must be greater than or equal to 0")
		}
	}

	for _, a := range m.Allergens {
		if !validAllergens[a] {
			errs = append(errs, fmt.Sprintf("allergen %q is not recognized", a))
		}
	}

	if m.SpicyLevel < 0 || m.SpicyLevel > 5 {
		errs = append(errs, "spicyLevel must be between 0 and 5")
	}

	return errs
}
