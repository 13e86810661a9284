package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestRecipeService_Postgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	ctx := context.Background()

	codec, err := shortlink.New("", shortlink.DefaultMinLength)
	require.NoError(t, err)
	svc := NewRecipeService(db, storage.NewMemoryStore("/media/"), config.DefaultSettings().Recipe, codec)

	author := testhelpers.CreateUser(t, db, "pgcook")
	tag := testhelpers.CreateTag(t, db, "dinner")
	rice := testhelpers.CreateIngredient(t, db, "rice", "g")

	name, text, minutes, image := "Risotto", "Stir slowly", 40, testhelpers.PixelPNG
	in := RecipeInput{
		Name:        &name,
		Text:        &text,
		CookingTime: &minutes,
		Image:       &image,
		TagIDs:      []uint{tag.ID},
		Ingredients: []IngredientAmount{{IngredientID: rice.ID, Amount: 300}},
	}

	recipe, err := svc.Create(ctx, author.ID, in)
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, 300, recipe.Ingredients[0].Amount)

	in.Ingredients[0].Amount = 350
	updated, err := svc.Update(ctx, types.Principal{UserID: author.ID}, recipe.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 350, updated.Ingredients[0].Amount)

	_, err = svc.Favorites().Add(ctx, author.ID, recipe.ID)
	require.NoError(t, err)
	_, err = svc.Favorites().Add(ctx, author.ID, recipe.ID)
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))

	reader := testhelpers.CreateUser(t, db, "pgreader")
	assertOneWinner(t, runConcurrently(8, func() error {
		_, err := svc.Basket().Add(ctx, reader.ID, recipe.ID)
		return err
	}))
	subs := NewSubscriptionService(db)
	assertOneWinner(t, runConcurrently(8, func() error {
		_, err := subs.Subscribe(ctx, reader.ID, author.ID)
		return err
	}))

	require.NoError(t, svc.Delete(ctx, types.Principal{UserID: author.ID}, recipe.ID))
}

func TestMembershipList_DuplicateInsertIsConflict_Postgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	user := testhelpers.CreateUser(t, db, "pgcook")
	recipe := testhelpers.CreateRecipe(t, db, user, "bread", nil)

	insertBeforeCreate(t, db, "baskets",
		"INSERT INTO baskets (user_id, recipe_id, created_at) VALUES (?, ?, NOW())", user.ID, recipe.ID)

	_, err := NewBasketList(db).Add(context.Background(), user.ID, recipe.ID)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.False(t, conflict.Absent)
}
