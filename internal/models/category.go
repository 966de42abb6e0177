package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the fixed recipe category enum.
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategoryFastFood  Category = "fastfood"
)

// Categories lists the enum in display order.
var Categories = []Category{CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryFastFood}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Position returns the enum index of c, or len(Categories) when unknown.
func (c Category) Position() int {
	for i, v := range Categories {
		if v == c {
			return i
		}
	}
	return len(Categories)
}

// RecipeCategory holds the display data for a category. RecipeCount is
// recomputed from the recipes table and never set by callers.
type RecipeCategory struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        Category  `gorm:"size:20;uniqueIndex;not null" json:"name"`
	DisplayName string    `gorm:"size:50;not null" json:"display_name"`
	Emoji       string    `gorm:"size:16;not null" json:"emoji"`
	Color       string    `gorm:"size:7;not null" json:"color"`
	Description string    `gorm:"size:200" json:"description"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	RecipeCount int64     `gorm:"not null" json:"recipe_count"`
}

// TableName keeps the table aligned with the collection name.
func (RecipeCategory) TableName() string {
	return "categories"
}

// DefaultCategories returns the seed rows created by migrations.
func DefaultCategories() []RecipeCategory {
	return []RecipeCategory{
		{Name: CategoryBreakfast, DisplayName: "Breakfast", Emoji: "🍳", Color: "#FFE4B5", Description: "Start your day with delicious Pakistani breakfast dishes", IsActive: true},
		{Name: CategoryLunch, DisplayName: "Lunch", Emoji: "🍛", Color: "#E6F3FF", Description: "Hearty and satisfying lunch recipes", IsActive: true},
		{Name: CategoryDinner, DisplayName: "Dinner", Emoji: "🍽️", Color: "#F0E6FF", Description: "Traditional dinner recipes for the family", IsActive: true},
		{Name: CategoryFastFood, DisplayName: "Fast Food", Emoji: "🍔", Color: "#FFE6E6", Description: "Quick and tasty fast food options", IsActive: true},
	}
}
