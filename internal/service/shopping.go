package service

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
)

// ShoppingService builds the printable shopping list of a user's basket
type ShoppingService struct {
	db       *gorm.DB
	renderer *shoppinglist.Renderer
}

// NewShoppingService creates a new ShoppingService instance
func NewShoppingService(db *gorm.DB, renderer *shoppinglist.Renderer) *ShoppingService {
	return &ShoppingService{db: db, renderer: renderer}
}

// Items returns the aggregated ingredient totals of every recipe in the
// basket of userID. Order follows basket insertion, then recipe line order.
func (s *ShoppingService) Items(ctx context.Context, userID uint) ([]shoppinglist.Item, error) {
	var lines []shoppinglist.Line
	err := s.db.WithContext(ctx).Model(&models.Basket{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = baskets.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("baskets.user_id = ?", userID).
		Order("baskets.id").
		Order("recipe_ingredients.id").
		Scan(&lines).Error
	if err != nil {
		return nil, wrapDBError(err, "load basket", "basket", userID)
	}
	return shoppinglist.Aggregate(lines), nil
}

// Download writes the shopping list PDF of user to w
func (s *ShoppingService) Download(ctx context.Context, user *models.User, w io.Writer) error {
	items, err := s.Items(ctx, user.ID)
	if err != nil {
		return err
	}

	log.Debug().Uint("user_id", user.ID).Int("items", len(items)).Msg("rendering shopping list")
	return s.renderer.Render(w, user.Username, items)
}
