package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves accounts, avatars and subscriptions
type UserHandler struct {
	users         service.IUserService
	subscriptions service.ISubscriptionService
	present       *presenter
	guards        Guards
	pagination    config.Pagination
	baseURL       string
}

func NewUserHandler(users service.IUserService, subs service.ISubscriptionService, present *presenter, guards Guards, settings config.Settings, baseURL string) *UserHandler {
	return &UserHandler{
		users:         users,
		subscriptions: subs,
		present:       present,
		guards:        guards,
		pagination:    settings.Pagination,
		baseURL:       baseURL,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", h.guards.Optional, h.List)
		users.GET("/me", h.guards.Required, h.Me)
		users.POST("/set_password", h.guards.Required, h.SetPassword)
		users.PUT("/me/avatar", h.guards.Required, h.SetAvatar)
		users.DELETE("/me/avatar", h.guards.Required, h.DeleteAvatar)
		users.GET("/subscriptions", h.guards.Required, h.Subscriptions)
		users.GET("/:id", h.guards.Optional, h.Get)
		users.POST("/:id/subscribe", h.guards.Required, h.Subscribe)
		users.DELETE("/:id/subscribe", h.guards.Required, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.Registration{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.present.user(user))
}

func (h *UserHandler) List(c *gin.Context) {
	page, ok := pageRequest(c, h.pagination)
	if !ok {
		return
	}

	users, total, err := h.users.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	if pageOutOfRange(c, page, total) {
		return
	}

	profiles, err := h.present.profiles(c.Request.Context(), middleware.GetPrincipal(c), users)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, requestBaseURL(c, h.baseURL), page, total, profiles))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	viewer := middleware.GetPrincipal(c)
	followed, err := h.subscriptions.IsSubscribed(c.Request.Context(), viewer.UserID, []uint{user.ID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.present.profile(user, followed[user.ID]))
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present.profile(user, false))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.users.SetPassword(c.Request.Context(), middleware.GetPrincipal(c).UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	var req types.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.SetAvatar(c.Request.Context(), middleware.GetPrincipal(c).UserID, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: h.present.imageURL(user.Avatar)})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := h.users.DeleteAvatar(c.Request.Context(), middleware.GetPrincipal(c).UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, ok := pageRequest(c, h.pagination)
	if !ok {
		return
	}
	limit := recipesLimit(c)

	authors, total, err := h.subscriptions.Subscriptions(c.Request.Context(), middleware.GetPrincipal(c).UserID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	if pageOutOfRange(c, page, total) {
		return
	}

	results, err := h.present.subscriptions(c.Request.Context(), authors, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, requestBaseURL(c, h.baseURL), page, total, results))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	author, err := h.subscriptions.Subscribe(c.Request.Context(), middleware.GetPrincipal(c).UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := h.present.subscriptions(c.Request.Context(), []models.User{*author}, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, results[0])
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), middleware.GetPrincipal(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit reads recipes_limit; missing or invalid means no limit
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
