package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type catalogFixture struct {
	tags  []*models.Tag
	eggs  *models.Ingredient
	flour *models.Ingredient
}

func seedCatalog(t *testing.T, a *testAPI) catalogFixture {
	t.Helper()
	return catalogFixture{
		tags:  []*models.Tag{testhelpers.CreateTag(t, a.db, "breakfast"), testhelpers.CreateTag(t, a.db, "dinner")},
		eggs:  testhelpers.CreateIngredient(t, a.db, "eggs", "pcs"),
		flour: testhelpers.CreateIngredient(t, a.db, "flour", "g"),
	}
}

func recipeBody(cf catalogFixture, name string) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Whisk and fry",
		"cooking_time": 15,
		"image":        testhelpers.PixelPNG,
		"tags":         []uint{cf.tags[0].ID, cf.tags[1].ID},
		"ingredients": []map[string]interface{}{
			{"id": cf.eggs.ID, "amount": 2},
			{"id": cf.flour.ID, "amount": 100},
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	a := newTestAPI(t)
	cf := seedCatalog(t, a)
	author := testhelpers.CreateUser(t, a.db, "author")

	rr := a.do(http.MethodPost, "/api/recipes", recipeBody(cf, "Omelette"), a.token(author))
	requireStatus(t, rr, http.StatusCreated)

	created := decode[types.RecipeResponse](t, rr)
	assert.Equal(t, "Omelette", created.Name)
	assert.Equal(t, 15, created.CookingTime)
	assert.Equal(t, author.ID, created.Author.ID)
	assert.False(t, created.Author.IsSubscribed)
	assert.True(t, strings.HasPrefix(created.Image, "/media/recipes/images/"), created.Image)

	require.Len(t, created.Tags, 2)
	assert.Equal(t, cf.tags[0].ID, created.Tags[0].ID)
	assert.Equal(t, cf.tags[1].ID, created.Tags[1].ID)
	require.Len(t, created.Ingredients, 2)
	assert.Equal(t, types.RecipeIngredientResponse{ID: cf.eggs.ID, Name: "eggs", MeasurementUnit: "pcs", Amount: 2}, created.Ingredients[0])

	rr = a.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), nil, "")
	requireStatus(t, rr, http.StatusOK)
	fetched := decode[types.RecipeResponse](t, rr)
	assert.False(t, fetched.IsFavorited)
	assert.False(t, fetched.IsInShoppingCart)
	assert.Equal(t, created, fetched)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	a := newTestAPI(t)
	cf := seedCatalog(t, a)

	rr := a.do(http.MethodPost, "/api/recipes", recipeBody(cf, "Anonymous"), "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateRecipeValidation(t *testing.T) {
	a := newTestAPI(t)
	cf := seedCatalog(t, a)
	author := testhelpers.CreateUser(t, a.db, "author")

	body := recipeBody(cf, "Broken")
	body["ingredients"] = []map[string]interface{}{
		{"id": cf.eggs.ID, "amount": 1},
		{"id": cf.eggs.ID, "amount": 2},
	}
	body["cooking_time"] = 0

	rr := a.do(http.MethodPost, "/api/recipes", body, a.token(author))
	requireStatus(t, rr, http.StatusBadRequest)

	errs := decode[errorBody](t, rr).Errors
	assert.NotEmpty(t, errs["ingredients"])
	assert.NotEmpty(t, errs["cooking_time"])

	rr = a.do(http.MethodPost, "/api/recipes", map[string]interface{}{"cooking_time": "soon"}, a.token(author))
	requireStatus(t, rr, http.StatusBadRequest)
	assert.Contains(t, decode[errorBody](t, rr).Errors, "cooking_time")
}

func TestUpdateRecipe(t *testing.T) {
	a := newTestAPI(t)
	cf := seedCatalog(t, a)
	author := testhelpers.CreateUser(t, a.db, "author")
	stranger := testhelpers.CreateUser(t, a.db, "stranger")

	rr := a.do(http.MethodPost, "/api/recipes", recipeBody(cf, "Soup"), a.token(author))
	requireStatus(t, rr, http.StatusCreated)
	id := decode[types.RecipeResponse](t, rr).ID
	path := fmt.Sprintf("/api/recipes/%d", id)

	missingTags := map[string]interface{}{
		"name":        "Renamed",
		"ingredients": []map[string]interface{}{{"id": cf.eggs.ID, "amount": 1}},
	}
	rr = a.do(http.MethodPatch, path, missingTags, a.token(author))
	requireStatus(t, rr, http.StatusBadRequest)
	assert.Equal(t, []string{"missing required field"}, decode[errorBody](t, rr).Errors["tags"])

	rr = a.do(http.MethodGet, path, nil, "")
	unchanged := decode[types.RecipeResponse](t, rr)
	assert.Equal(t, "Soup", unchanged.Name)
	assert.Len(t, unchanged.Tags, 2)

	rr = a.do(http.MethodPatch, path, recipeBody(cf, "Stolen"), a.token(stranger))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	update := map[string]interface{}{
		"name":        "Better soup",
		"tags":        []uint{cf.tags[1].ID},
		"ingredients": []map[string]interface{}{{"id": cf.flour.ID, "amount": 20}},
	}
	rr = a.do(http.MethodPatch, path, update, a.token(author))
	requireStatus(t, rr, http.StatusOK)
	updated := decode[types.RecipeResponse](t, rr)
	assert.Equal(t, "Better soup", updated.Name)
	assert.Equal(t, "Whisk and fry", updated.Text)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 20, updated.Ingredients[0].Amount)

	rr = a.do(http.MethodPatch, "/api/recipes/999", update, a.token(author))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteRecipe(t *testing.T) {
	a := newTestAPI(t)
	author := testhelpers.CreateUser(t, a.db, "author")
	recipe := testhelpers.CreateRecipe(t, a.db, author, "toast", nil)
	path := fmt.Sprintf("/api/recipes/%d", recipe.ID)

	rr := a.do(http.MethodDelete, path, nil, a.token(author))
	requireStatus(t, rr, http.StatusNoContent)

	rr = a.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFavoriteAndShoppingCart(t *testing.T) {
	a := newTestAPI(t)
	cf := seedCatalog(t, a)
	cook := testhelpers.CreateUser(t, a.db, "cook")
	recipe := testhelpers.CreateRecipe(t, a.db, cook, "pancakes", nil,
		testhelpers.Line{Ingredient: cf.eggs, Amount: 2},
		testhelpers.Line{Ingredient: cf.flour, Amount: 200},
	)
	token := a.token(cook)

	for _, tc := range []struct {
		path  string
		label string
	}{
		{fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID), "favorites"},
		{fmt.Sprintf("/api/recipes/%d/shopping_cart", recipe.ID), "the shopping cart"},
	} {
		rr := a.do(http.MethodPost, tc.path, nil, token)
		requireStatus(t, rr, http.StatusCreated)
		short := decode[types.ShortRecipeResponse](t, rr)
		assert.Equal(t, types.ShortRecipeResponse{
			ID:          recipe.ID,
			Name:        "pancakes",
			Image:       "/media/" + recipe.Image,
			CookingTime: 10,
		}, short)

		rr = a.do(http.MethodPost, tc.path, nil, token)
		requireStatus(t, rr, http.StatusBadRequest)
		assert.Equal(t, fmt.Sprintf("Recipe with id-%d is already in %s", recipe.ID, tc.label), decode[messageBody](t, rr).Errors)
	}

	rr := a.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d", recipe.ID), nil, token)
	flags := decode[types.RecipeResponse](t, rr)
	assert.True(t, flags.IsFavorited)
	assert.True(t, flags.IsInShoppingCart)

	rr = a.do(http.MethodGet, "/api/recipes/download_shopping_cart", nil, token)
	requireStatus(t, rr, http.StatusOK)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_cart.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF-"))

	path := fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID)
	rr = a.do(http.MethodDelete, path, nil, token)
	requireStatus(t, rr, http.StatusNoContent)
	rr = a.do(http.MethodDelete, path, nil, token)
	requireStatus(t, rr, http.StatusBadRequest)
	assert.Equal(t, fmt.Sprintf("Recipe with id-%d is not in favorites", recipe.ID), decode[messageBody](t, rr).Errors)

	rr = a.do(http.MethodPost, "/api/recipes/999/favorite", nil, token)
	requireStatus(t, rr, http.StatusNotFound)
	assert.JSONEq(t, `{"detail":"recipe with id 999 not found"}`, rr.Body.String())
	rr = a.do(http.MethodPost, "/api/recipes/abc/favorite", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListRecipesPagination(t *testing.T) {
	a := newTestAPI(t)
	author := testhelpers.CreateUser(t, a.db, "author")
	for i := 1; i <= 7; i++ {
		testhelpers.CreateRecipe(t, a.db, author, fmt.Sprintf("recipe-%d", i), nil)
	}

	rr := a.do(http.MethodGet, "/api/recipes", nil, "")
	requireStatus(t, rr, http.StatusOK)
	first := decode[types.Page[types.RecipeResponse]](t, rr)
	assert.EqualValues(t, 7, first.Count)
	assert.Len(t, first.Results, 6)
	assert.Equal(t, "recipe-7", first.Results[0].Name)
	require.NotNil(t, first.Next)
	assert.Equal(t, "http://example.com/api/recipes?page=2", *first.Next)
	assert.Nil(t, first.Previous)

	rr = a.do(http.MethodGet, "/api/recipes?page=2", nil, "")
	second := decode[types.Page[types.RecipeResponse]](t, rr)
	require.Len(t, second.Results, 1)
	assert.Equal(t, "recipe-1", second.Results[0].Name)
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.Equal(t, "http://example.com/api/recipes", *second.Previous)

	rr = a.do(http.MethodGet, "/api/recipes?page=3", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	for _, page := range []string{"9223372036854775807", "4611686018427387905", "1537228672809129302"} {
		rr = a.do(http.MethodGet, "/api/recipes?page="+page, nil, "")
		requireStatus(t, rr, http.StatusNotFound)
		assert.JSONEq(t, `{"detail":"Invalid page."}`, rr.Body.String(), page)
	}

	rr = a.do(http.MethodGet, "/api/recipes?limit=3&author="+fmt.Sprint(author.ID), nil, "")
	limited := decode[types.Page[types.RecipeResponse]](t, rr)
	assert.Len(t, limited.Results, 3)
	require.NotNil(t, limited.Next)
	assert.Contains(t, *limited.Next, "limit=3")
}

func TestShortLinkRedirect(t *testing.T) {
	a := newTestAPI(t)
	author := testhelpers.CreateUser(t, a.db, "author")
	recipe := testhelpers.CreateRecipe(t, a.db, author, "linked", nil)

	rr := a.do(http.MethodGet, fmt.Sprintf("/api/recipes/%d/get-link", recipe.ID), nil, "")
	requireStatus(t, rr, http.StatusOK)
	link := decode[types.ShortLinkResponse](t, rr).ShortLink

	prefix := fmt.Sprintf("http://example.com/api/recipes/%d/", recipe.ID)
	require.True(t, strings.HasPrefix(link, prefix), link)
	code := strings.TrimPrefix(link, prefix)

	rr = a.do(http.MethodGet, "/s/"+code, nil, "")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, fmt.Sprintf("/recipes/%d", recipe.ID), rr.Header().Get("Location"))

	rr = a.do(http.MethodGet, "/s/zz", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
