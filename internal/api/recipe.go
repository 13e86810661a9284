package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeHandlerConfig wires a RecipeHandler
type RecipeHandlerConfig struct {
	Recipes       service.IRecipeService
	Users         service.IUserService
	Shopping      service.IShoppingService
	Presenter     *presenter
	Guards        Guards
	Settings      config.Settings
	PublicBaseURL string
	CreateLimit   gin.HandlerFunc
	UpdateLimit   gin.HandlerFunc
}

type RecipeHandler struct {
	recipes     service.IRecipeService
	users       service.IUserService
	shopping    service.IShoppingService
	present     *presenter
	guards      Guards
	pagination  config.Pagination
	baseURL     string
	createLimit gin.HandlerFunc
	updateLimit gin.HandlerFunc
}

func NewRecipeHandler(cfg RecipeHandlerConfig) *RecipeHandler {
	return &RecipeHandler{
		recipes:     cfg.Recipes,
		users:       cfg.Users,
		shopping:    cfg.Shopping,
		present:     cfg.Presenter,
		guards:      cfg.Guards,
		pagination:  cfg.Settings.Pagination,
		baseURL:     cfg.PublicBaseURL,
		createLimit: cfg.CreateLimit,
		updateLimit: cfg.UpdateLimit,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.guards.Optional, h.ListRecipes)
		recipes.POST("", h.guards.Required, h.createLimit, h.CreateRecipe)
		recipes.GET("/download_shopping_cart", h.guards.Required, h.DownloadShoppingCart)
		recipes.GET("/:id", h.guards.Optional, h.GetRecipe)
		recipes.PATCH("/:id", h.guards.Required, h.updateLimit, h.UpdateRecipe)
		recipes.DELETE("/:id", h.guards.Required, h.DeleteRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("/:id/favorite", h.guards.Required, h.AddFavorite)
		recipes.DELETE("/:id/favorite", h.guards.Required, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", h.guards.Required, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", h.guards.Required, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, ok := pageRequest(c, h.pagination)
	if !ok {
		return
	}

	filter := service.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      truthy(c.Query("is_favorited")),
		IsInShoppingCart: truthy(c.Query("is_in_shopping_cart")),
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": map[string][]string{"author": {"Enter a whole number."}}})
			return
		}
		filter.AuthorID = uint(author)
	}

	viewer := middleware.GetPrincipal(c)
	recipes, total, err := h.recipes.List(c.Request.Context(), viewer, filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	if pageOutOfRange(c, page, total) {
		return
	}

	results, err := h.present.recipeList(c.Request.Context(), viewer, recipes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, requestBaseURL(c, h.baseURL), page, total, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), middleware.GetPrincipal(c).UserID, recipeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), middleware.GetPrincipal(c), id, recipeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	link, err := h.recipes.ShortLink(c.Request.Context(), id, requestBaseURL(c, h.baseURL))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ShortLinkResponse{ShortLink: link})
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMember(c, h.recipes.Favorites().Add)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMember(c, h.recipes.Favorites().Remove)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMember(c, h.recipes.Basket().Add)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMember(c, h.recipes.Basket().Remove)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.shopping.Download(c.Request.Context(), user, &buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_cart.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *RecipeHandler) addMember(c *gin.Context, add func(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	recipe, err := add(c.Request.Context(), middleware.GetPrincipal(c).UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.present.shortRecipe(recipe))
}

func (h *RecipeHandler) removeMember(c *gin.Context, remove func(ctx context.Context, userID, recipeID uint) error) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), middleware.GetPrincipal(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, recipe *models.Recipe) {
	resp, err := h.present.recipe(c.Request.Context(), middleware.GetPrincipal(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}

func recipeInput(req types.RecipeRequest) service.RecipeInput {
	in := service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
		TagIDs:      req.Tags,
	}
	if req.Ingredients != nil {
		in.Ingredients = make([]service.IngredientAmount, len(req.Ingredients))
		for i, line := range req.Ingredients {
			in.Ingredients[i] = service.IngredientAmount{IngredientID: line.ID, Amount: line.Amount}
		}
	}
	return in
}

func truthy(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
