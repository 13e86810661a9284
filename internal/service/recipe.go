package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// RecipeInput is the payload of a create or update call. Nil scalar fields are
// left unchanged on update; nil composition lists are reported as missing.
type RecipeInput struct {
	Name        *string
	Text        *string
	CookingTime *int
	// Image is a base64 data URI
	Image       *string
	TagIDs      []uint
	Ingredients []IngredientAmount
}

// RecipeFilter narrows a recipe listing
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         uint
	IsFavorited      bool
	IsInShoppingCart bool
}

// ViewerFlags tells whether a viewer has a recipe in favorites or basket
type ViewerFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
}

// RecipeService handles recipe operations
type RecipeService struct {
	db        *gorm.DB
	blobs     storage.Store
	limits    config.RecipeLimits
	links     *shortlink.Codec
	favorites *FavoriteList
	basket    *BasketList
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, blobs storage.Store, limits config.RecipeLimits, links *shortlink.Codec) *RecipeService {
	return &RecipeService{
		db:        db,
		blobs:     blobs,
		limits:    limits,
		links:     links,
		favorites: NewFavoriteList(db),
		basket:    NewBasketList(db),
	}
}

// Favorites returns the favorites relation
func (s *RecipeService) Favorites() *FavoriteList {
	return s.favorites
}

// Basket returns the shopping basket relation
func (s *RecipeService) Basket() *BasketList {
	return s.basket
}

// Create validates in and persists a recipe authored by authorID together with
// its full composition in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error) {
	img, err := s.validate(ctx, in, true)
	if err != nil {
		return nil, err
	}

	key, err := storeImage(ctx, s.blobs, recipeImagePrefix, img)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(*in.Name),
		Text:        strings.TrimSpace(*in.Text),
		CookingTime: *in.CookingTime,
		Image:       key,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return writeComposition(tx, recipe.ID, in.TagIDs, in.Ingredients)
	})
	if err != nil {
		discardBlob(ctx, s.blobs, key)
		return nil, wrapDBError(err, "create recipe", "recipe", nil)
	}

	log.Info().Uint("recipe_id", recipe.ID).Uint("user_id", authorID).Msg("recipe created")
	return s.Get(ctx, recipe.ID)
}

// Update replaces the composition of a recipe and any scalar fields present in
// in. The scalar update and the composition rewrite commit together.
func (s *RecipeService) Update(ctx context.Context, actor types.Principal, id uint, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeChange(ctx, actor, recipe, "modify this recipe"); err != nil {
		return nil, err
	}

	img, err := s.validate(ctx, in, false)
	if err != nil {
		return nil, err
	}

	var newKey string
	if img != nil {
		if newKey, err = storeImage(ctx, s.blobs, recipeImagePrefix, img); err != nil {
			return nil, err
		}
	}
	oldKey := recipe.Image

	if in.Name != nil {
		recipe.Name = strings.TrimSpace(*in.Name)
	}
	if in.Text != nil {
		recipe.Text = strings.TrimSpace(*in.Text)
	}
	if in.CookingTime != nil {
		recipe.CookingTime = *in.CookingTime
	}
	if newKey != "" {
		recipe.Image = newKey
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := clearComposition(tx, recipe.ID); err != nil {
			return err
		}
		return writeComposition(tx, recipe.ID, in.TagIDs, in.Ingredients)
	})
	if err != nil {
		discardBlob(ctx, s.blobs, newKey)
		return nil, wrapDBError(err, "update recipe", "recipe", id)
	}

	if newKey != "" {
		discardBlob(ctx, s.blobs, oldKey)
	}

	log.Info().Uint("recipe_id", id).Uint("user_id", actor.UserID).Msg("recipe updated")
	return s.Get(ctx, id)
}

// Delete removes a recipe, its relationship rows and, once committed, its image
func (s *RecipeService) Delete(ctx context.Context, actor types.Principal, id uint) error {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeChange(ctx, actor, recipe, "delete this recipe"); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearComposition(tx, id); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Basket{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
	if err != nil {
		return wrapDBError(err, "delete recipe", "recipe", id)
	}

	discardBlob(ctx, s.blobs, recipe.Image)

	log.Info().Uint("recipe_id", id).Uint("user_id", actor.UserID).Msg("recipe deleted")
	return nil
}

// Get returns a recipe with its author, tags and ingredients loaded
func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.preloaded(ctx).First(&recipe, id).Error; err != nil {
		return nil, wrapDBError(err, "get recipe", "recipe", id)
	}
	return &recipe, nil
}

// List returns one page of recipes, newest first, and the total match count
func (s *RecipeService) List(ctx context.Context, viewer types.Principal, filter RecipeFilter, page PageRequest) ([]models.Recipe, int64, error) {
	var total int64
	countQuery := s.applyFilter(s.db.WithContext(ctx).Model(&models.Recipe{}), viewer, filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "count recipes", "recipe", nil)
	}

	var recipes []models.Recipe
	err := s.applyFilter(s.preloaded(ctx), viewer, filter).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Offset(page.offset()).
		Limit(page.Size).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, wrapDBError(err, "list recipes", "recipe", nil)
	}

	return recipes, total, nil
}

// ComputeViewerFlags reports the favorite and basket membership of one recipe
func (s *RecipeService) ComputeViewerFlags(ctx context.Context, recipeID uint, viewer types.Principal) (ViewerFlags, error) {
	flags, err := s.ViewerFlags(ctx, []uint{recipeID}, viewer)
	if err != nil {
		return ViewerFlags{}, err
	}
	return flags[recipeID], nil
}

// ViewerFlags reports favorite and basket membership for several recipes.
// Anonymous viewers get no flags set.
func (s *RecipeService) ViewerFlags(ctx context.Context, recipeIDs []uint, viewer types.Principal) (map[uint]ViewerFlags, error) {
	flags := make(map[uint]ViewerFlags, len(recipeIDs))
	if !viewer.Authenticated() {
		return flags, nil
	}

	favorited, err := s.favorites.Contains(ctx, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.basket.Contains(ctx, viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range recipeIDs {
		flags[id] = ViewerFlags{IsFavorited: favorited[id], IsInShoppingCart: inCart[id]}
	}
	return flags, nil
}

// ShortLink returns the canonical URL of the recipe under baseURL followed by
// the recipe's short code.
func (s *RecipeService) ShortLink(ctx context.Context, id uint, baseURL string) (string, error) {
	if _, err := s.find(ctx, id); err != nil {
		return "", err
	}
	code, err := s.links.Encode(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/recipes/%d/%s", strings.TrimRight(baseURL, "/"), id, code), nil
}

// ResolveShortLink returns the id of the recipe behind code
func (s *RecipeService) ResolveShortLink(ctx context.Context, code string) (uint, error) {
	id, err := s.links.Decode(code)
	if err != nil {
		return 0, &NotFoundError{Resource: "short link", ID: code}
	}
	if _, err := s.find(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}

// RecipePreviews returns up to limit recipes of each author, newest first,
// and the number of recipes each author has. A limit below one means no limit.
func (s *RecipeService) RecipePreviews(ctx context.Context, authorIDs []uint, limit int) (map[uint][]models.Recipe, map[uint]int64, error) {
	previews := make(map[uint][]models.Recipe, len(authorIDs))
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return previews, counts, nil
	}

	var rows []struct {
		AuthorID uint
		Count    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS count").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, wrapDBError(err, "count recipes", "recipe", nil)
	}
	for _, r := range rows {
		counts[r.AuthorID] = r.Count
	}

	var recipes []models.Recipe
	err = s.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, nil, wrapDBError(err, "list recipes", "recipe", nil)
	}
	for _, r := range recipes {
		if limit > 0 && len(previews[r.AuthorID]) >= limit {
			continue
		}
		previews[r.AuthorID] = append(previews[r.AuthorID], r)
	}

	return previews, counts, nil
}

func (s *RecipeService) find(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		return nil, wrapDBError(err, "get recipe", "recipe", id)
	}
	return &recipe, nil
}

func (s *RecipeService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.id") }).
		Preload("Tags.Tag").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func (s *RecipeService) applyFilter(q *gorm.DB, viewer types.Principal, filter RecipeFilter) *gorm.DB {
	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if viewer.Authenticated() {
		if filter.IsFavorited {
			q = q.Where("recipes.id IN (?)", s.favorites.recipeIDs(viewer.UserID))
		}
		if filter.IsInShoppingCart {
			q = q.Where("recipes.id IN (?)", s.basket.recipeIDs(viewer.UserID))
		}
	}
	return q
}

// validate checks every field of in and returns the decoded image, if any.
// All problems are reported together.
func (s *RecipeService) validate(ctx context.Context, in RecipeInput, creating bool) (*media.Image, error) {
	verr := &ValidationError{}
	lim := s.limits

	checkText := func(field string, value *string, maxLen int) {
		if value == nil {
			if creating {
				verr.Add(field, msgRequired)
			}
			return
		}
		v := strings.TrimSpace(*value)
		switch {
		case v == "":
			verr.Add(field, msgBlank)
		case maxLen > 0 && utf8.RuneCountInString(v) > maxLen:
			verr.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", maxLen))
		}
	}
	checkText("name", in.Name, lim.NameMaxLength)
	checkText("text", in.Text, 0)

	switch {
	case in.CookingTime == nil:
		if creating {
			verr.Add("cooking_time", msgRequired)
		}
	case *in.CookingTime < lim.MinCookingTime || *in.CookingTime > lim.MaxCookingTime:
		verr.Add("cooking_time", fmt.Sprintf("must be between %d and %d", lim.MinCookingTime, lim.MaxCookingTime))
	}

	var img *media.Image
	if in.Image == nil {
		if creating {
			verr.Add("image", msgRequired)
		}
	} else {
		decoded, err := media.DecodeDataURI(*in.Image)
		if err != nil {
			verr.Add("image", err.Error())
		}
		img = decoded
	}

	checkComposition(verr, "tags", in.TagIDs, func(id uint) uint { return id })
	checkComposition(verr, "ingredients", in.Ingredients, func(i IngredientAmount) uint { return i.IngredientID })
	for _, line := range in.Ingredients {
		if line.Amount < lim.MinAmount || line.Amount > lim.MaxAmount {
			verr.Add("ingredients", fmt.Sprintf("amount for ingredient %d must be between %d and %d", line.IngredientID, lim.MinAmount, lim.MaxAmount))
		}
	}

	if len(verr.Fields["tags"]) == 0 {
		missing, err := missingIDs(s.db.WithContext(ctx), &models.Tag{}, in.TagIDs)
		if err != nil {
			return nil, wrapDBError(err, "check tags", "tag", nil)
		}
		if len(missing) > 0 {
			verr.Add("tags", "tag ids do not exist: "+joinIDs(missing))
		}
	}
	if len(verr.Fields["ingredients"]) == 0 {
		ids := make([]uint, len(in.Ingredients))
		for i, line := range in.Ingredients {
			ids[i] = line.IngredientID
		}
		missing, err := missingIDs(s.db.WithContext(ctx), &models.Ingredient{}, ids)
		if err != nil {
			return nil, wrapDBError(err, "check ingredients", "ingredient", nil)
		}
		if len(missing) > 0 {
			verr.Add("ingredients", "ingredient ids do not exist: "+joinIDs(missing))
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return img, nil
}

// authorizeChange lets the author or an admin through. The admin role is read
// from the users table so a demotion applies to tokens issued before it.
func (s *RecipeService) authorizeChange(ctx context.Context, actor types.Principal, recipe *models.Recipe, action string) error {
	if !actor.Authenticated() {
		return &AuthorizationError{Action: action}
	}
	if actor.UserID == recipe.AuthorID {
		return nil
	}

	var user models.User
	err := s.db.WithContext(ctx).Select("id", "role").First(&user, actor.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &AuthorizationError{Action: action}
	}
	if err != nil {
		return wrapDBError(err, "get user role", "user", actor.UserID)
	}
	if !user.IsAdmin() {
		return &AuthorizationError{Action: action}
	}
	return nil
}
