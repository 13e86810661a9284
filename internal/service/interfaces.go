package service

import (
	"context"
	"io"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, principal types.Principal) error
}

// IUserService defines the interface for account operations
type IUserService interface {
	Register(ctx context.Context, reg Registration) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, page PageRequest) ([]models.User, int64, error)
	SetPassword(ctx context.Context, userID uint, current, next string) error
	SetAvatar(ctx context.Context, userID uint, dataURI string) (*models.User, error)
	DeleteAvatar(ctx context.Context, userID uint) error
}

// ISubscriptionService defines the interface for subscription operations
type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	Subscriptions(ctx context.Context, userID uint, page PageRequest) ([]models.User, int64, error)
	IsSubscribed(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
}

// ICatalogService defines the interface for tag and ingredient lookups
type ICatalogService interface {
	Tags(ctx context.Context) ([]models.Tag, error)
	Tag(ctx context.Context, id uint) (*models.Tag, error)
	Ingredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	Ingredient(ctx context.Context, id uint) (*models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error)
	Update(ctx context.Context, actor types.Principal, id uint, in RecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, actor types.Principal, id uint) error
	Get(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, viewer types.Principal, filter RecipeFilter, page PageRequest) ([]models.Recipe, int64, error)
	ViewerFlags(ctx context.Context, recipeIDs []uint, viewer types.Principal) (map[uint]ViewerFlags, error)
	ShortLink(ctx context.Context, id uint, baseURL string) (string, error)
	ResolveShortLink(ctx context.Context, code string) (uint, error)
	RecipePreviews(ctx context.Context, authorIDs []uint, limit int) (map[uint][]models.Recipe, map[uint]int64, error)
	Favorites() *FavoriteList
	Basket() *BasketList
}

// IShoppingService defines the interface for shopping list export
type IShoppingService interface {
	Items(ctx context.Context, userID uint) ([]shoppinglist.Item, error)
	Download(ctx context.Context, user *models.User, w io.Writer) error
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IShoppingService     = (*ShoppingService)(nil)
)
