package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	SetPassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

// IUserService defines the interface for user profile operations
type IUserService interface {
	Get(ctx context.Context, viewerID, id uint) (*UserView, error)
	List(ctx context.Context, viewerID uint, offset, limit int) ([]UserView, int64, error)
	UpdateAvatar(ctx context.Context, userID uint, dataURI string) (string, error)
	DeleteAvatar(ctx context.Context, userID uint) error
}

// ICatalogService defines the interface for tag and ingredient lookups
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, authorID uint, in RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, userID, recipeID uint, in RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, userID, recipeID uint) error
	Get(ctx context.Context, viewerID, recipeID uint) (*RecipeView, error)
	List(ctx context.Context, viewerID uint, q RecipeQuery) ([]RecipeView, int64, error)
}

// IRecipeRelationService defines the interface for favorites and the shopping cart
type IRecipeRelationService interface {
	Add(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	Remove(ctx context.Context, userID, recipeID uint) error
}

// ISubscriptionService defines the interface for following authors
type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorView, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	List(ctx context.Context, userID uint, offset, limit, recipesLimit int) ([]AuthorView, int64, error)
}

type IShoppingListService interface {
	Build(ctx context.Context, userID uint) ([]models.ShoppingListItem, error)
}

type IShortLinkService interface {
	Resolve(ctx context.Context, shortID string) (uint, error)
	ShortIDFor(ctx context.Context, recipeID uint) (string, error)
}

var (
	_ IAuthService           = (*AuthService)(nil)
	_ IUserService           = (*UserService)(nil)
	_ ICatalogService        = (*CatalogService)(nil)
	_ IRecipeService         = (*RecipeService)(nil)
	_ IRecipeRelationService = (*RecipeRelationService)(nil)
	_ ISubscriptionService   = (*SubscriptionService)(nil)
	_ IShoppingListService   = (*ShoppingListService)(nil)
	_ IShortLinkService      = (*ShortLinkService)(nil)
)
