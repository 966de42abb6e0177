package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Users are never hard-deleted; deactivation
// clears IsActive and keeps the record.
type User struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Name            string    `gorm:"size:50;not null" json:"name"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"not null" json:"-"`
	Avatar          string    `gorm:"size:500" json:"avatar"`
	CreatedRecipes  IDList    `gorm:"type:jsonb;not null" json:"created_recipes"`
	FavoriteRecipes IDList    `gorm:"type:jsonb;not null" json:"favorite_recipes"`
	IsActive        bool      `gorm:"not null;index" json:"is_active"`
}

// Summary projects the user into the author form attached to recipes.
func (u *User) Summary() AuthorSummary {
	return AuthorSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// AuthorSummary is the public identity of a recipe author.
type AuthorSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}
