package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestShoppingService_AggregatesBasket(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "cook")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")

	omelette := testhelpers.CreateRecipe(t, db, user, "omelette", nil, testhelpers.Line{Ingredient: eggs, Amount: 2})
	cake := testhelpers.CreateRecipe(t, db, user, "cake", nil,
		testhelpers.Line{Ingredient: eggs, Amount: 3},
		testhelpers.Line{Ingredient: flour, Amount: 100},
	)
	ignored := testhelpers.CreateRecipe(t, db, user, "bread", nil, testhelpers.Line{Ingredient: flour, Amount: 500})

	basket := NewBasketList(db)
	_, err := basket.Add(ctx, user.ID, omelette.ID)
	require.NoError(t, err)
	_, err = basket.Add(ctx, user.ID, cake.ID)
	require.NoError(t, err)
	_, err = NewFavoriteList(db).Add(ctx, user.ID, ignored.ID)
	require.NoError(t, err)

	svc := NewShoppingService(db, shoppinglist.NewRenderer(config.DefaultSettings().ShoppingList))

	items, err := svc.Items(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []shoppinglist.Item{
		{Name: "eggs", MeasurementUnit: "pcs", Total: 5},
		{Name: "flour", MeasurementUnit: "g", Total: 100},
	}, items)

	var buf bytes.Buffer
	require.NoError(t, svc.Download(ctx, user, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestShoppingService_EmptyBasket(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db, "cook")
	svc := NewShoppingService(db, shoppinglist.NewRenderer(config.DefaultSettings().ShoppingList))

	items, err := svc.Items(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
