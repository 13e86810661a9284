package models

import (
	"time"
)

// RecipeMembership is a (user, recipe) relationship row such as a favorite
// or a shopping basket entry.
type RecipeMembership interface {
	SetPair(userID, recipeID uint)
}

// Favorite records that a user marked a recipe as favorite
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) SetPair(userID, recipeID uint) {
	f.UserID, f.RecipeID = userID, recipeID
}

// Basket records that a user added a recipe to the shopping list
type Basket struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_basket_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_basket_user_recipe;index" json:"recipe_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Basket) TableName() string {
	return "baskets"
}

func (b *Basket) SetPair(userID, recipeID uint) {
	b.UserID, b.RecipeID = userID, recipeID
}

// AllModels lists every table in migration order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&Basket{},
		&UserSubscription{},
	}
}
