package models

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty is how demanding a recipe is to cook.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted difficulty values.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

// Recipe defaults applied on create.
const (
	DefaultDifficulty = DifficultyMedium
	DefaultServings   = 4
	DefaultRating     = "0.0"
)

// NutritionInfo is the optional per-serving nutrition breakdown.
type NutritionInfo struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Fiber    float64 `json:"fiber" validate:"gte=0"`
}

// Recipe is a user-authored recipe. LikesCount always mirrors len(Likes);
// callers must go through SyncLikesCount before saving.
type Recipe struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Image       string         `gorm:"size:500;not null" json:"image"`
	Ingredients string         `gorm:"type:text;not null" json:"ingredients"`
	Steps       string         `gorm:"type:text;not null" json:"steps"`
	Category    Category       `gorm:"size:20;not null;index" json:"category"`
	Time        string         `gorm:"size:50;not null" json:"time"`
	Difficulty  Difficulty     `gorm:"size:10;not null;index" json:"difficulty"`
	Servings    int            `gorm:"not null" json:"servings"`
	Rating      string         `gorm:"size:3;not null" json:"rating"`
	Tags        StringList     `gorm:"type:jsonb;not null" json:"tags"`
	Nutrition   *NutritionInfo `gorm:"serializer:json" json:"nutrition_info,omitempty"`
	AuthorID    uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Likes       IDList         `gorm:"type:jsonb;not null" json:"likes"`
	LikesCount  int            `gorm:"not null;index" json:"likes_count"`
	IsPublic    bool           `gorm:"not null;index" json:"is_public"`

	Author *AuthorSummary `gorm:"-" json:"author,omitempty"`
}

// SyncLikesCount recomputes the derived like counter from the likes set.
func (r *Recipe) SyncLikesCount() {
	r.LikesCount = len(r.Likes)
}

// VisibleTo reports whether the requester may read the recipe. A nil
// requester is anonymous.
func (r *Recipe) VisibleTo(requester *uuid.UUID) bool {
	return r.IsPublic || (requester != nil && *requester == r.AuthorID)
}

// Summary projects the recipe into its list form.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:         r.ID,
		Name:       r.Name,
		Image:      r.Image,
		Category:   r.Category,
		Rating:     r.Rating,
		LikesCount: r.LikesCount,
		IsPublic:   r.IsPublic,
	}
}

// RecipeSummary is the compact form used when recipes are embedded in a profile.
type RecipeSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Image      string    `json:"image"`
	Category   Category  `json:"category"`
	Rating     string    `json:"rating"`
	LikesCount int       `json:"likes_count"`
	IsPublic   bool      `json:"is_public"`
}
