package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// Messages used for composition fields
const (
	msgMissingField = "missing required field"
	msgEmptyList    = "must not be empty"
)

// IngredientAmount is one ingredient line of a recipe composition
type IngredientAmount struct {
	IngredientID uint
	Amount       int
}

// duplicatesBy returns every key that occurs more than once in items, in the
// order the keys were first seen.
func duplicatesBy[T any, K comparable](items []T, key func(T) K) []K {
	counts := make(map[K]int, len(items))
	order := make([]K, 0, len(items))
	for _, item := range items {
		k := key(item)
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}

	var dups []K
	for _, k := range order {
		if counts[k] > 1 {
			dups = append(dups, k)
		}
	}
	return dups
}

// checkComposition records on verr why items cannot be used as a composition
// list: nil means the field was omitted, an empty list is rejected on its own,
// and every duplicated key is named.
func checkComposition[T any, K comparable](verr *ValidationError, field string, items []T, key func(T) K) {
	switch {
	case items == nil:
		verr.Add(field, msgMissingField)
		return
	case len(items) == 0:
		verr.Add(field, msgEmptyList)
		return
	}

	if dups := duplicatesBy(items, key); len(dups) > 0 {
		verr.Add(field, "duplicate ids: "+joinIDs(dups))
	}
}

func joinIDs[K any](ids []K) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}

// missingIDs returns the ids absent from table, in input order
func missingIDs(db *gorm.DB, model interface{}, ids []uint) ([]uint, error) {
	var found []uint
	if err := db.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// writeComposition bulk-inserts the tag and ingredient rows of a recipe
func writeComposition(tx *gorm.DB, recipeID uint, tagIDs []uint, ingredients []IngredientAmount) error {
	tags := make([]models.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		tags[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	if err := tx.Omit(clause.Associations).Create(&tags).Error; err != nil {
		return fmt.Errorf("insert recipe tags: %w", err)
	}

	lines := make([]models.RecipeIngredient, len(ingredients))
	for i, in := range ingredients {
		lines[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: in.IngredientID, Amount: in.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return fmt.Errorf("insert recipe ingredients: %w", err)
	}
	return nil
}

// clearComposition removes every tag and ingredient row of a recipe
func clearComposition(tx *gorm.DB, recipeID uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("delete recipe ingredients: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("delete recipe tags: %w", err)
	}
	return nil
}
