package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestCatalogService_IngredientPrefix(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	for _, name := range []string{"Sugar", "salt", "Flour", "sugar_free syrup"} {
		testhelpers.CreateIngredient(t, db, name, "g")
	}

	names := func(items []models.Ingredient) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.Name
		}
		return out
	}

	all, err := svc.Ingredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	su, err := svc.Ingredients(ctx, "SU")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Sugar", "sugar_free syrup"}, names(su))

	escaped, err := svc.Ingredients(ctx, "sugar_")
	require.NoError(t, err)
	assert.Equal(t, []string{"sugar_free syrup"}, names(escaped))

	none, err := svc.Ingredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalogService_TagsAndUpserts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	n, err := svc.UpsertTags(ctx, []models.Tag{{Name: "Lunch", Slug: "lunch"}, {Name: "Breakfast", Slug: "breakfast"}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = svc.UpsertTags(ctx, []models.Tag{{Name: "Lunch", Slug: "lunch"}})
	require.NoError(t, err)
	assert.Zero(t, n)

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Slug)

	n, err = svc.UpsertIngredients(ctx, []models.Ingredient{
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "milk", MeasurementUnit: "g"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = svc.UpsertIngredients(ctx, []models.Ingredient{{Name: "milk", MeasurementUnit: "ml"}})
	require.NoError(t, err)
	assert.Zero(t, n)

	ingredient, err := svc.Ingredient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "milk", ingredient.Name)
}
