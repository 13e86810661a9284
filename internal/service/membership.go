package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

type membershipRow[T any] interface {
	*T
	models.RecipeMembership
}

// MembershipList is a toggleable (user, recipe) relation. The unique index on
// the pair makes concurrent adds resolve to one row and a ConflictError.
type MembershipList[T any, PT membershipRow[T]] struct {
	db    *gorm.DB
	label string
}

type (
	FavoriteList = MembershipList[models.Favorite, *models.Favorite]
	BasketList   = MembershipList[models.Basket, *models.Basket]
)

func NewFavoriteList(db *gorm.DB) *FavoriteList {
	return &FavoriteList{db: db, label: "favorites"}
}

func NewBasketList(db *gorm.DB) *BasketList {
	return &BasketList{db: db, label: "the shopping cart"}
}

// Add puts the recipe on the user's list and returns the recipe
func (m *MembershipList[T, PT]) Add(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, recipeID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(new(T)).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return m.alreadyListed(recipeID)
		}

		row := PT(new(T))
		row.SetPair(userID, recipeID)
		if err := tx.Create(row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return m.alreadyListed(recipeID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, wrapDBError(err, "add to "+m.label, "recipe", recipeID)
	}

	log.Debug().Uint("user_id", userID).Uint("recipe_id", recipeID).Msgf("recipe added to %s", m.label)
	return &recipe, nil
}

// Remove takes the recipe off the user's list
func (m *MembershipList[T, PT]) Remove(ctx context.Context, userID, recipeID uint) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id").First(&recipe, recipeID).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ConflictError{
				Message: fmt.Sprintf("Recipe with id-%d is not in %s", recipeID, m.label),
				Absent:  true,
			}
		}
		return nil
	})
	if err != nil {
		return wrapDBError(err, "remove from "+m.label, "recipe", recipeID)
	}

	log.Debug().Uint("user_id", userID).Uint("recipe_id", recipeID).Msgf("recipe removed from %s", m.label)
	return nil
}

// Contains reports which of recipeIDs are on the user's list
func (m *MembershipList[T, PT]) Contains(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return result, nil
	}

	var listed []uint
	err := m.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &listed).Error
	if err != nil {
		return nil, wrapDBError(err, "check "+m.label, "recipe", nil)
	}

	for _, id := range listed {
		result[id] = true
	}
	return result, nil
}

// recipeIDs is a subquery selecting the ids of the recipes on the user's list
func (m *MembershipList[T, PT]) recipeIDs(userID uint) *gorm.DB {
	return m.db.Model(new(T)).Select("recipe_id").Where("user_id = ?", userID)
}

func (m *MembershipList[T, PT]) alreadyListed(recipeID uint) error {
	return &ConflictError{Message: fmt.Sprintf("Recipe with id-%d is already in %s", recipeID, m.label)}
}
