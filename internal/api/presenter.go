package api

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
)

// presenter shapes models into response bodies for a given viewer
type presenter struct {
	blobs   storage.Store
	subs    service.ISubscriptionService
	recipes service.IRecipeService
}

func (p *presenter) imageURL(key string) string {
	if key == "" {
		return ""
	}
	return p.blobs.URL(key)
}

func (p *presenter) user(u *models.User) types.UserResponse {
	return types.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (p *presenter) profile(u *models.User, subscribed bool) types.ProfileResponse {
	resp := types.ProfileResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != "" {
		avatar := p.blobs.URL(u.Avatar)
		resp.Avatar = &avatar
	}
	return resp
}

func (p *presenter) profiles(ctx context.Context, viewer types.Principal, users []models.User) ([]types.ProfileResponse, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := p.subs.IsSubscribed(ctx, viewer.UserID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.ProfileResponse, len(users))
	for i := range users {
		out[i] = p.profile(&users[i], followed[users[i].ID])
	}
	return out, nil
}

func (p *presenter) shortRecipe(r *models.Recipe) types.ShortRecipeResponse {
	return types.ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       p.imageURL(r.Image),
		CookingTime: r.CookingTime,
	}
}

func (p *presenter) recipe(ctx context.Context, viewer types.Principal, r *models.Recipe) (types.RecipeResponse, error) {
	out, err := p.recipeList(ctx, viewer, []models.Recipe{*r})
	if err != nil {
		return types.RecipeResponse{}, err
	}
	return out[0], nil
}

func (p *presenter) recipeList(ctx context.Context, viewer types.Principal, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs = append(authorIDs, r.AuthorID)
	}

	flags, err := p.recipes.ViewerFlags(ctx, recipeIDs, viewer)
	if err != nil {
		return nil, err
	}
	followed, err := p.subs.IsSubscribed(ctx, viewer.UserID, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		resp := types.RecipeResponse{
			ID:               r.ID,
			Tags:             make([]types.TagResponse, 0, len(r.Tags)),
			Ingredients:      make([]types.RecipeIngredientResponse, 0, len(r.Ingredients)),
			IsFavorited:      flags[r.ID].IsFavorited,
			IsInShoppingCart: flags[r.ID].IsInShoppingCart,
			Name:             r.Name,
			Image:            p.imageURL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		if r.Author != nil {
			resp.Author = p.profile(r.Author, followed[r.AuthorID])
		}
		for _, rt := range r.Tags {
			if rt.Tag != nil {
				resp.Tags = append(resp.Tags, tagResponse(rt.Tag))
			}
		}
		for _, ri := range r.Ingredients {
			if ri.Ingredient == nil {
				continue
			}
			resp.Ingredients = append(resp.Ingredients, types.RecipeIngredientResponse{
				ID:              ri.Ingredient.ID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}
		out[i] = resp
	}
	return out, nil
}

func (p *presenter) subscriptions(ctx context.Context, authors []models.User, recipesLimit int) ([]types.SubscriptionResponse, error) {
	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	previews, counts, err := p.recipes.RecipePreviews(ctx, ids, recipesLimit)
	if err != nil {
		return nil, err
	}

	out := make([]types.SubscriptionResponse, len(authors))
	for i := range authors {
		a := &authors[i]
		short := make([]types.ShortRecipeResponse, 0, len(previews[a.ID]))
		for j := range previews[a.ID] {
			short = append(short, p.shortRecipe(&previews[a.ID][j]))
		}
		out[i] = types.SubscriptionResponse{
			ProfileResponse: p.profile(a, true),
			Recipes:         short,
			RecipesCount:    counts[a.ID],
		}
	}
	return out, nil
}

func tagResponse(t *models.Tag) types.TagResponse {
	return types.TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func ingredientResponse(i *models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}
