package models

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	// Image is the blob store key of the recipe photo
	Image string `gorm:"size:255;not null" json:"image"`

	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Tags        []RecipeTag        `gorm:"constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

// RecipeIngredient joins a recipe to an ingredient with a quantity
type RecipeIngredient struct {
	ID           uint        `gorm:"primarykey" json:"id"`
	RecipeID     uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"constraint:OnDelete:RESTRICT" json:"ingredient,omitempty"`
	Amount       int         `gorm:"not null" json:"amount"`
}

// RecipeTag joins a recipe to a tag
type RecipeTag struct {
	ID       uint `gorm:"primarykey" json:"id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uint `gorm:"not null;uniqueIndex:idx_recipe_tag;index" json:"tag_id"`
	Tag      *Tag `gorm:"constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}
