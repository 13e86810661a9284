package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestMembershipList_AddTwiceConflicts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")
	recipe := testhelpers.CreateRecipe(t, db, user, "bread", nil)

	favorites := NewFavoriteList(db)

	added, err := favorites.Add(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "bread", added.Name)

	_, err = favorites.Add(ctx, user.ID, recipe.ID)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.False(t, conflict.Absent)
	assert.Equal(t, "Recipe with id-1 is already in favorites", conflict.Message)

	var n int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestMembershipList_RemoveAbsent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")
	recipe := testhelpers.CreateRecipe(t, db, user, "bread", nil)

	basket := NewBasketList(db)

	err := basket.Remove(ctx, user.ID, recipe.ID)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.True(t, conflict.Absent)
	assert.Equal(t, "Recipe with id-1 is not in the shopping cart", conflict.Message)

	_, err = basket.Add(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	require.NoError(t, basket.Remove(ctx, user.ID, recipe.ID))

	contains, err := basket.Contains(ctx, user.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.False(t, contains[recipe.ID])
}

func TestMembershipList_UnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")

	favorites := NewFavoriteList(db)
	var notFound *NotFoundError

	_, err := favorites.Add(ctx, user.ID, 77)
	assert.True(t, errors.As(err, &notFound))

	err = favorites.Remove(ctx, user.ID, 77)
	assert.True(t, errors.As(err, &notFound))
}

func TestMembershipList_ListsAreIndependent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "cook")
	other := testhelpers.CreateUser(t, db, "guest")
	recipe := testhelpers.CreateRecipe(t, db, user, "bread", nil)

	favorites := NewFavoriteList(db)
	basket := NewBasketList(db)

	_, err := favorites.Add(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	inBasket, err := basket.Contains(ctx, user.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.False(t, inBasket[recipe.ID])

	otherFavorites, err := favorites.Contains(ctx, other.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.False(t, otherFavorites[recipe.ID])

	_, err = favorites.Add(ctx, other.ID, recipe.ID)
	assert.NoError(t, err)
}
